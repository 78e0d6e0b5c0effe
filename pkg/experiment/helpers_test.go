package experiment_test

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/record"
	"github.com/askiada/go-pipebench/pkg/sorter"
)

// fakeClock advances only when the simulated CPU sleeps.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	c.sleeps++
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sleeps
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []record.Record
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, rec record.Record) error {
	if m.err != nil {
		return m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)

	return nil
}

func (m *memoryRecorder) Close() error {
	return nil
}

func (m *memoryRecorder) Records() []record.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]record.Record(nil), m.records...)
}

// fixedAlgorithm takes (i+1)*step for its i-th run.
type fixedAlgorithm struct {
	mu   sync.Mutex
	step time.Duration
	runs int
}

func (f *fixedAlgorithm) Name() string {
	return "fixed"
}

func (f *fixedAlgorithm) Run(_ []int) sorter.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.runs++

	return sorter.Result{Elapsed: time.Duration(f.runs) * f.step}
}

var errRecord = errors.New("disk full")
