// Package dispatch runs fire-and-forget background jobs. Jobs are queued by
// request handlers, executed after the response is gone, and their failures
// are logged and swallowed. There is no retry and no delivery confirmation.
package dispatch

import (
	"context"
	"sync"

	"taskpanel/logger"
	"taskpanel/util/common"
)

// Job is a unit of background work. Run errors never reach the request that
// scheduled the job.
type Job interface {
	ID() string
	Type() string
	Run() error
}

type Dispatcher struct {
	jobs   chan Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(queueSize int) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		jobs:   make(chan Job, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.worker()
}

// Submit enqueues a job without blocking. When the queue is full the job is
// dropped with a warning, keeping the caller's request path unaffected.
func (d *Dispatcher) Submit(j Job) {
	select {
	case d.jobs <- j:
		logger.Debugf("job %s queued, type %s", j.ID(), j.Type())
	default:
		logger.Warningf("job queue full, dropping job %s, type %s", j.ID(), j.Type())
	}
}

// Pending returns the number of jobs queued and not yet picked up.
func (d *Dispatcher) Pending() int {
	return len(d.jobs)
}

// Stop cancels the worker and waits for the job in flight to finish. Jobs
// still queued are abandoned.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case j := <-d.jobs:
			d.runJob(j)
		}
	}
}

func (d *Dispatcher) runJob(j Job) {
	defer common.Recover("job " + j.ID())
	if err := j.Run(); err != nil {
		logger.Warningf("job %s failed, type %s: %v", j.ID(), j.Type(), err)
	}
}
