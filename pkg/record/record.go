// Package record persists the result of every benchmark run.
package record

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrUnknownFormat = errors.New("unknown record format")

// Record is the result of one run.
type Record struct {
	ExperimentID string    `json:"experiment_id"`
	CPU          string    `json:"cpu"`
	Stages       int       `json:"stages"`
	Run          int       `json:"run"`
	InputSize    int       `json:"input_size"`
	Seconds      float64   `json:"seconds"`
	Comparisons  int       `json:"comparisons"`
	Swaps        int       `json:"swaps"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Recorder stores records. Implementations are safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Close() error
}

// Open creates the recorder matching the extension of path:
// .db, .sqlite and .sqlite3 for SQLite, .jsonl and .json for JSON lines.
func Open(ctx context.Context, path string) (Recorder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(ctx, path)
	case ".jsonl", ".json":
		return CreateJSONLines(path)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}
}
