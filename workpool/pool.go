// SPDX-License-Identifier: MIT

package workpool

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/countprep/internal/zlog"
)

// StackTraceBufferSize is the buffer size for stack trace collection.
const StackTraceBufferSize = 4096

var (
	// ErrUnavailable is returned when the budget has no free worker slot.
	ErrUnavailable = errors.New("workpool: no worker capacity available")

	// ErrTaskPanicked wraps a panic recovered from a task.
	ErrTaskPanicked = errors.New("workpool: task panicked")
)

// Task is one unit of work. Tasks must not share mutable state except through
// disjoint regions (e.g., distinct output columns).
type Task func() error

// Pool runs tasks on at most Size goroutines drawn from a Budget.
type Pool struct {
	size   int
	budget *Budget
	logger *zap.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithBudget sets the shared budget (default Process()).
func WithBudget(b *Budget) Option {
	return func(p *Pool) {
		if b != nil {
			p.budget = b
		}
	}
}

// WithLogger sets the logger used for recovered panics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// New returns a pool of size workers (size < 1 is raised to 1).
func New(size int, opts ...Option) *Pool {
	p := &Pool{size: max(size, 1)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.budget == nil {
		p.budget = Process()
	}
	p.logger = zlog.OrNop(p.logger)
	return p
}

// Size returns the configured number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes every task and blocks until all have returned.
//
// The returned slice holds one entry per task (nil on success). A panicking
// task yields an error wrapping ErrTaskPanicked; the other tasks keep running.
//
// Errors: ErrUnavailable when no slot could be reserved (no task has run).
func (p *Pool) Run(tasks []Task) ([]error, error) {
	got := p.budget.tryReserve(int64(p.size))
	if got == 0 {
		return nil, ErrUnavailable
	}
	defer p.budget.release(got)

	results := make([]error, len(tasks))
	var g errgroup.Group
	g.SetLimit(int(got))
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = p.runOne(i, task)
			return nil
		})
	}
	_ = g.Wait() // tasks report through results

	return results, nil
}

// runOne runs task and converts a panic into a per-task error.
func (p *Pool) runOne(i int, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, StackTraceBufferSize)
			n := runtime.Stack(buf, false)
			p.logger.Error("task panic recovered",
				zap.Int("task", i),
				zap.Any("panic", r),
				zap.String("stack", string(buf[:n])))
			err = fmt.Errorf("task %d: %v: %w", i, r, ErrTaskPanicked)
		}
	}()

	return task()
}
