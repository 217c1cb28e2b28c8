package storage

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vthunder/tock/internal/tasks"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"id", "title", "notes", "due", "priority", "est_minutes", "status"}

// WriteCSV writes the header and one row per task, in the order given.
// Records end in CRLF as RFC 4180 asks.
func WriteCSV(w io.Writer, all []tasks.Task) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range all {
		row := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Notes,
			t.Due,
			string(t.Priority),
			strconv.Itoa(t.EstMinutes),
			string(t.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes a CSV snapshot of all to path, replacing any
// existing file.
func ExportCSV(all []tasks.Task, path string) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, all); err != nil {
		return &IOError{Op: "export", Path: path, Err: err}
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return &IOError{Op: "export", Path: path, Err: err}
	}
	return nil
}
