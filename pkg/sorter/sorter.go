// Package sorter provides a quicksort charged with the cost of a simulated CPU on every comparison.
package sorter

import (
	"cmp"
	"time"
)

// Processor is charged once per comparison.
type Processor interface {
	ProcessDelay()
}

// Counters describes the work done by a sort.
type Counters struct {
	// Comparisons is the number of elements compared with a pivot.
	Comparisons int
	// Swaps is the number of exchanges between two distinct positions.
	Swaps int
	// Partitions is the number of pivots placed.
	Partitions int
}

// Sort sorts arr in place in ascending order.
//
// The last element of every range is the pivot. Every element of the range is compared
// with it and proc is charged for each comparison, whether or not the element moves.
// Sorted and reverse sorted inputs recurse as deep as the length of arr.
func Sort[T cmp.Ordered](arr []T, proc Processor) Counters {
	var c Counters
	quickSort(arr, 0, len(arr)-1, proc, &c)

	return c
}

func quickSort[T cmp.Ordered](arr []T, low, high int, proc Processor, c *Counters) {
	if low >= high {
		return
	}

	pi := partition(arr, low, high, proc, c)
	quickSort(arr, low, pi-1, proc, c)
	quickSort(arr, pi+1, high, proc, c)
}

func partition[T cmp.Ordered](arr []T, low, high int, proc Processor, c *Counters) int {
	pivot := arr[high]
	i := low - 1

	for j := low; j < high; j++ {
		if arr[j] <= pivot {
			i++
			swap(arr, i, j, c)
		}

		c.Comparisons++
		proc.ProcessDelay()
	}

	swap(arr, i+1, high, c)
	c.Partitions++

	return i + 1
}

func swap[T any](arr []T, i, j int, c *Counters) {
	if i == j {
		return
	}

	arr[i], arr[j] = arr[j], arr[i]
	c.Swaps++
}

// Result is the outcome of one run of an Algorithm.
type Result struct {
	Elapsed time.Duration
	Counters
}

// Algorithm sorts a copy of its input and reports how long it took.
type Algorithm interface {
	Name() string
	Run(data []int) Result
}

// QuickSort is the Algorithm sorting with Sort on a simulated CPU.
type QuickSort struct {
	proc  Processor
	clock func() time.Time
}

// QuickSortOption configures a QuickSort.
type QuickSortOption func(q *QuickSort)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) QuickSortOption {
	return func(q *QuickSort) {
		q.clock = clock
	}
}

func NewQuickSort(proc Processor, opts ...QuickSortOption) *QuickSort {
	q := &QuickSort{
		proc:  proc,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

func (q *QuickSort) Name() string {
	return "Quick Sort"
}

// Run sorts a copy of data. Elapsed only covers the sort itself.
func (q *QuickSort) Run(data []int) Result {
	arr := make([]int, len(data))
	copy(arr, data)

	start := q.clock()
	counters := Sort(arr, q.proc)
	elapsed := q.clock().Sub(start)

	return Result{Elapsed: max(elapsed, 0), Counters: counters}
}

var _ Algorithm = (*QuickSort)(nil)
