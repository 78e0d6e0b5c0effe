package pipeline_test

import (
	"testing"

	"github.com/askiada/go-pipebench/pkg/pipeline/model"
)

func inputStep(t *testing.T, total int) *model.Step[int] {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			inputChan <- i
		}
	}()

	return &model.Step[int]{Output: inputChan}
}

func collect(t *testing.T, output <-chan int) []int {
	t.Helper()

	res := []int{}
	for out := range output {
		res = append(res, out)
	}

	return res
}
