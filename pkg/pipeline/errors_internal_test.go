package pipeline

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorChansAddConcurrently(t *testing.T) {
	t.Parallel()

	ecs := errorChans{}
	wg := sync.WaitGroup{}

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			ecs.add(newErrorChan(string(rune('a'+i)), nil))
		}()
	}

	wg.Wait()
	assert.Len(t, ecs.list, 10)
}

func TestMergeErrorsAllNil(t *testing.T) {
	t.Parallel()

	outErrorChan := mergeErrors(newErrorChan("generate", nil), newErrorChan("sort", nil))
	gotErr, open := <-outErrorChan
	assert.False(t, open)
	require.NoError(t, gotErr)
}

func TestMergeErrorsPrefixesStepName(t *testing.T) {
	t.Parallel()

	errGenerate := errors.New("generate failed")
	errSort := errors.New("sort failed")

	generateC := make(chan error, 1)
	sortC := make(chan error, 2)
	generateC <- errGenerate
	sortC <- errSort
	sortC <- errSort

	close(generateC)
	close(sortC)

	got := map[string]int{}
	for err := range mergeErrors(newErrorChan("generate", generateC), newErrorChan("sort", sortC), newErrorChan("sink", nil)) {
		got[err.Error()]++
	}

	assert.Equal(t, map[string]int{
		"generate: generate failed": 1,
		"sort: sort failed":         2,
	}, got)
}

func TestWaitForPipelineReturnsFirstError(t *testing.T) {
	t.Parallel()

	failing := make(chan error, 1)
	failing <- assert.AnError
	close(failing)

	done := make(chan error)
	close(done)

	err := waitForPipeline(newErrorChan("ok", done), newErrorChan("ko", failing))
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "ko")
}
