// Package workpool runs a batch of independent tasks on a bounded number of
// goroutines and blocks until every task has finished.
//
// Concurrency is limited twice: per call (errgroup.SetLimit) and per process
// (a Budget, a weighted semaphore shared by all callers). A call that cannot
// reserve any worker slot from its Budget fails fast with ErrUnavailable so the
// caller can fall back to running the tasks itself.
//
// One task's failure never cancels the others: errors and recovered panics are
// reported per task, by index.
//
// There is no timeout and no cancellation; a task that never returns blocks Run.
package workpool
