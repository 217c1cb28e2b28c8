package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/vthunder/tock/internal/tasks"
)

// DefaultDBFilename is the SQLite task database inside the state directory.
const DefaultDBFilename = "tasks.db"

// SQLite persists the task set as rows of a single flat table. Save
// replaces the table contents in one transaction.
type SQLite struct {
	db      *sql.DB
	path    string
	openErr error // returned by Load and Save when the database is unusable
}

// OpenSQLite opens or creates the task database at path.
func OpenSQLite(path string) (*SQLite, error) {
	s := openSQLite(path)
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s, nil
}

// openSQLite never fails. A database that cannot be opened or migrated
// keeps its error for Load and Save, so it is reported like any other
// unreadable task file.
func openSQLite(path string) *SQLite {
	s := &SQLite{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.openErr = &IOError{Op: "read", Path: path, Err: err}
		return s
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		s.openErr = sqliteError(path, err)
		return s
	}
	if err := db.Ping(); err != nil {
		db.Close()
		s.openErr = sqliteError(path, err)
		return s
	}
	s.db = db
	if err := s.migrate(); err != nil {
		db.Close()
		s.db = nil
		s.openErr = sqliteError(path, err)
	}
	return s
}

// sqliteError classifies a driver error: a file that is not a task
// database is a ParseError, anything else an IOError.
func sqliteError(path string, err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && (serr.Code == sqlite3.ErrNotADB || serr.Code == sqlite3.ErrCorrupt) {
		return &ParseError{Path: path, Record: -1, Err: err}
	}
	return &IOError{Op: "read", Path: path, Err: err}
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY,
		seq         INTEGER NOT NULL,
		title       TEXT NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		due         TEXT NOT NULL DEFAULT '',
		priority    TEXT NOT NULL,
		est_minutes INTEGER NOT NULL,
		status      TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns every row in the order they were saved.
func (s *SQLite) Load() ([]tasks.Task, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	rows, err := s.db.Query(`SELECT id, title, notes, due, priority, est_minutes, status FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	defer rows.Close()

	result := []tasks.Task{}
	for rows.Next() {
		var t tasks.Task
		var priority, status string
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &t.Due, &priority, &t.EstMinutes, &status); err != nil {
			return nil, &ParseError{Path: s.path, Record: len(result), Err: err}
		}
		t.Priority = tasks.Priority(priority)
		t.Status = tasks.Status(status)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	if perr := checkRecords(result); perr != nil {
		perr.Path = s.path
		return nil, perr
	}
	return result, nil
}

// Save replaces the table with all.
func (s *SQLite) Save(all []tasks.Task) error {
	if s.openErr != nil {
		return &IOError{Op: "write", Path: s.path, Err: s.openErr}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (id, seq, title, notes, due, priority, est_minutes, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	defer stmt.Close()

	for i, t := range all {
		if _, err := stmt.Exec(t.ID, i, t.Title, t.Notes, t.Due, string(t.Priority), t.EstMinutes, string(t.Status)); err != nil {
			return &IOError{Op: "write", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
