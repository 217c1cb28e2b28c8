package storage

import "fmt"

// IOError is a failure to read or write a storage file.
type IOError struct {
	Op   string // "read", "write", "export"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError is a storage file that exists but does not hold valid task
// records. Record is the zero-based index of the bad record, or -1 when
// the file as a whole is malformed.
type ParseError struct {
	Path   string
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: record %d: %v", e.Path, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
