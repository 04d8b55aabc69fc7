package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count to use the worker pool.
// Below this, single-threaded is faster than the dispatch overhead.
const parallelThreshold = 64

// rowChunk is a range of grid rows for one worker to process.
type rowChunk struct {
	y0, y1 int
	fn     func(y0, y1 int)
}

// rowPool fans row ranges out to persistent worker goroutines. Workers
// idle between steps instead of being respawned, so the per-step cost
// is one channel send per chunk plus the completion barrier.
type rowPool struct {
	numWorkers int

	workChan chan rowChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newRowPool() *rowPool {
	return &rowPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent workers.
func (p *rowPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *rowPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *rowPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.y0, chunk.y1)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0,rows) into one chunk per worker, dispatches them, and
// blocks until every chunk reports done. fn must be safe to call from
// multiple goroutines on disjoint row ranges.
func (p *rowPool) run(rows int, fn func(y0, y1 int)) {
	if !p.running {
		p.start()
	}

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		y0 := w * chunkSize
		y1 := y0 + chunkSize
		if y1 > rows {
			y1 = rows
		}
		if y0 >= y1 {
			continue
		}

		p.workChan <- rowChunk{y0: y0, y1: y1, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
