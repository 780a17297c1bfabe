package world

import (
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
)

// WorkerPool runs chunk generation tasks in the background. Queued tasks
// always run to completion.
type WorkerPool struct {
	pool pond.Pool

	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool creates a pool with the given number of workers.
// Zero or less means one worker per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	return &WorkerPool{pool: pond.NewPool(workers)}
}

// Submit queues task. After Shutdown the task runs on the caller, so a
// dispatched chunk always leaves the generating state.
func (p *WorkerPool) Submit(task func()) {
	p.mu.RLock()
	if !p.stopped {
		p.pool.Submit(task)
		p.mu.RUnlock()
		return
	}
	p.mu.RUnlock()
	task()
}

// QueueLength returns the number of tasks waiting for a worker.
func (p *WorkerPool) QueueLength() uint64 {
	return p.pool.WaitingTasks()
}

// Running returns the number of busy workers.
func (p *WorkerPool) Running() int64 {
	return p.pool.RunningWorkers()
}

// Shutdown waits for queued and running tasks, then stops the workers.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	p.pool.StopAndWait()
}
