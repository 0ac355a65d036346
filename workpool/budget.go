// SPDX-License-Identifier: MIT

package workpool

import (
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Budget caps the number of workers running at once across every Run call
// that shares it.
type Budget struct {
	sem  *semaphore.Weighted
	size int64
}

// NewBudget returns a budget of n worker slots (n < 1 is raised to 1).
func NewBudget(n int64) *Budget {
	if n < 1 {
		n = 1
	}
	return &Budget{sem: semaphore.NewWeighted(n), size: n}
}

// Size returns the total number of slots.
func (b *Budget) Size() int64 { return b.size }

// tryReserve takes up to want slots without blocking and returns how many it got.
// Zero means the budget is exhausted.
func (b *Budget) tryReserve(want int64) int64 {
	want = min(want, b.size)
	if b.sem.TryAcquire(want) {
		return want
	}
	if want > 1 && b.sem.TryAcquire(1) {
		return 1
	}
	return 0
}

func (b *Budget) release(n int64) {
	if n > 0 {
		b.sem.Release(n)
	}
}

var (
	processOnce   sync.Once
	processBudget *Budget
)

// Process returns the budget shared by the whole process, sized to GOMAXPROCS
// at first use.
func Process() *Budget {
	processOnce.Do(func() {
		processBudget = NewBudget(int64(runtime.GOMAXPROCS(0)))
	})
	return processBudget
}
