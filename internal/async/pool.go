package async

import (
	"log"
	"sync"
)

// Pool runs background write tasks on a fixed number of workers so that
// request handlers never wait on disk or network I/O. Callers must not
// hold locks across Submit: when the queue is full Submit blocks until a
// worker frees a slot.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit queues task for background execution.
func (p *Pool) Submit(task func()) {
	if task == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("[ASYNC] submit after close, task dropped")
		return
	}
	// Holding mu here keeps Close from closing the channel mid-send;
	// workers drain without mu so a full queue still makes progress.
	p.tasks <- task
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}
