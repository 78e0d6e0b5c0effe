package pipeline

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
	ErrSplitterTotal     = errors.New("total must be greater than 0")
)

type errorChans struct {
	mu   sync.Mutex
	list []*errorChan
}

func (ec *errorChans) add(errChan *errorChan) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.list = append(ec.list, errChan)
}

// errorChan is the error channel of a single step. Errors read from it are prefixed with the step name.
type errorChan struct {
	c    <-chan error
	name string
}

func newErrorChan(name string, c <-chan error) *errorChan {
	return &errorChan{
		c:    c,
		name: name,
	}
}

// mergeErrors fans in the error channels of every step.
// The output channel can hold one error per step, so a sender never blocks once
// the reader stopped after the first error.
func mergeErrors(cs ...*errorChan) <-chan error {
	var wg sync.WaitGroup

	out := make(chan error, len(cs))

	wg.Add(len(cs))

	for _, c := range cs {
		go func(c *errorChan) {
			defer wg.Done()

			if c.c == nil {
				return
			}

			for err := range c.c {
				out <- errors.Wrap(err, c.name)
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
