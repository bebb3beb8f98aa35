package worker

import (
	"sync"

	"creditd/internal/metrics"
)

type task func()

// Pool runs queued tasks on a fixed set of goroutines. Used for the
// best-effort audit log writes so they stay off the request path.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop closes the queue and waits for in-flight tasks to drain.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
