package ocdg

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// mapTasks runs task(i) for i in [0,n) on at most workers goroutines and
// returns the results indexed by i. When tasks fail, the error of the lowest
// failing index is returned: every index below the lowest failure recorded so
// far still runs, and only indices above it are skipped.
//
// Results travel back by value; tasks must not write shared state.
func mapTasks[T any](n, workers int, task func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	errs := make([]error, n)
	var next atomic.Int64
	var lowest atomic.Int64 // lowest failing index, n while none failed
	lowest.Store(int64(n))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for {
				i := next.Add(1) - 1
				// Claims only grow, so once i passes the lowest failure
				// every later claim does too.
				if i >= int64(n) || i > lowest.Load() {
					return
				}
				res, err := task(int(i))
				if err != nil {
					errs[i] = err
					lowerTo(&lowest, i)
					continue
				}
				results[i] = res
			}
		}()
	}
	wg.Wait()

	if i := lowest.Load(); i < int64(n) {
		return nil, errs[i]
	}
	return results, nil
}

// lowerTo stores v into m unless m already holds a smaller value.
func lowerTo(m *atomic.Int64, v int64) {
	for {
		cur := m.Load()
		if v >= cur || m.CompareAndSwap(cur, v) {
			return
		}
	}
}
