package record

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // driver
	"github.com/pkg/errors"
)

const createRunsTable = `CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	experiment_id TEXT    NOT NULL,
	cpu           TEXT    NOT NULL,
	stages        INTEGER NOT NULL,
	run           INTEGER NOT NULL,
	input_size    INTEGER NOT NULL,
	seconds       REAL    NOT NULL,
	comparisons   INTEGER NOT NULL,
	swaps         INTEGER NOT NULL,
	recorded_at   TIMESTAMP NOT NULL
)`

const insertRun = `INSERT INTO runs
	(experiment_id, cpu, stages, run, input_size, seconds, comparisons, swaps, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite stores records in the runs table of a SQLite database.
type SQLite struct {
	db     *sql.DB
	insert *sql.Stmt
}

// NewSQLite opens the database at path, creating it and its runs table when missing.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	// a single connection serializes writers
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, createRunsTable)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(err, "unable to create runs table")
	}

	insert, err := db.PrepareContext(ctx, insertRun)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(err, "unable to prepare insert")
	}

	return &SQLite{db: db, insert: insert}, nil
}

func (s *SQLite) Record(ctx context.Context, rec Record) error {
	_, err := s.insert.ExecContext(ctx,
		rec.ExperimentID, rec.CPU, rec.Stages, rec.Run, rec.InputSize,
		rec.Seconds, rec.Comparisons, rec.Swaps, rec.RecordedAt.UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to insert run %d of %s", rec.Run, rec.CPU)
	}

	return nil
}

// DB exposes the underlying database.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Close() error {
	err := s.insert.Close()
	if err != nil {
		s.db.Close()

		return errors.Wrap(err, "unable to close insert statement")
	}

	return errors.Wrap(s.db.Close(), "unable to close database")
}

var _ Recorder = (*SQLite)(nil)
