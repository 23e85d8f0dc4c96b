// Package workerpool provides a small fork-join worker pool used by the
// parallel matmul driver to partition rows of A across goroutines.
//
// A Pool is created fresh for each parallel call, spawns its workers once,
// and is closed when that call returns. Init is
// lazy (workers only start once New is called) and Close is idempotent, so
// a caller that chose to hold a Pool across multiple calls instead could do
// so safely.
package workerpool

import (
	"runtime"
	"sync"
)

// Pool runs ParallelFor partitions across a fixed set of goroutines spawned
// at New and reused until Close.
type Pool struct {
	numWorkers int
	workC      chan func()
	closeOnce  sync.Once
	done       chan struct{}
}

// New creates a pool with numWorkers goroutines. numWorkers <= 0 is treated
// as runtime.GOMAXPROCS(0).
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan func(), numWorkers),
		done:       make(chan struct{}),
	}
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

// NumWorkers reports how many goroutines this pool spawned.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

func (p *Pool) worker() {
	for {
		select {
		case fn, ok := <-p.workC:
			if !ok {
				return
			}
			fn()
		case <-p.done:
			return
		}
	}
}

// Close shuts the pool down. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// ParallelFor splits [0, n) into min(NumWorkers, n) contiguous ranges whose
// sizes differ by at most one and runs fn(start, end) for each on a pool goroutine, blocking until every
// range has completed. Equal-sized partitioning is adequate for uniform row
// density; callers with highly skewed row lengths may prefer to pre-bucket
// rows before calling, since this method does no dynamic work-stealing.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForIndexed(n, func(_, start, end int) {
		fn(start, end)
	})
}

// ParallelForIndexed is ParallelFor but also passes each range's chunk
// index (0-based, in partition order), so a caller can write results into a
// pre-sized per-chunk slice without additional synchronisation.
func (p *Pool) ParallelForIndexed(n int, fn func(chunkIndex, start, end int)) {
	if n <= 0 {
		return
	}

	workers := p.numWorkers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, 0, n)
		return
	}

	// Balanced partitioning: the first n%workers chunks get one extra
	// element, so exactly `workers` non-empty chunks are produced (unlike
	// naive ceil-division chunking, which can silently yield fewer chunks
	// than workers when workers doesn't evenly divide n).
	base := n / workers
	rem := n % workers

	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		end := start + size
		lo, hi, idx := start, end, w
		wg.Add(1)
		p.workC <- func() {
			defer wg.Done()
			fn(idx, lo, hi)
		}
		start = end
	}
	wg.Wait()
}
