package record

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
)

// JSONLines writes one JSON object per record and per line.
type JSONLines struct {
	mu  sync.Mutex
	wrt io.Writer
}

// NewJSONLines writes records to wrt. Close closes wrt when it is an io.Closer.
func NewJSONLines(wrt io.Writer) *JSONLines {
	return &JSONLines{wrt: wrt}
}

// CreateJSONLines truncates or creates the file at path.
func CreateJSONLines(path string) (*JSONLines, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", path)
	}

	return NewJSONLines(file), nil
}

func (j *JSONLines) Record(_ context.Context, rec Record) error {
	line, err := sonnet.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "unable to marshal record")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err = j.wrt.Write(append(line, '\n'))
	if err != nil {
		return errors.Wrap(err, "unable to write record")
	}

	return nil
}

func (j *JSONLines) Close() error {
	if closer, ok := j.wrt.(io.Closer); ok {
		return errors.Wrap(closer.Close(), "unable to close records")
	}

	return nil
}

var _ Recorder = (*JSONLines)(nil)
