// Package jobs provides a worker pool for asynchronous tasks, such as
// account provisioning and minting over the HTTP API.
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// Job is a unit of work processed by the worker pool.
type Job struct {
	ID        uuid.UUID `json:"jobId"`
	Status    Status    `json:"status"`
	Error     string    `json:"-"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	do    func() (string, error)
	done  chan struct{}
	store Store
}

// Wait blocks until the job has finished when wait is true and returns
// the job's error, if any. It returns immediately when wait is false.
func (j *Job) Wait(wait bool) error {
	if !wait {
		return nil
	}

	<-j.done

	// The worker wrote its final state to the store before closing done.
	if fresh, err := j.store.Job(j.ID); err == nil {
		j.Status = fresh.Status
		j.Error = fresh.Error
		j.Result = fresh.Result
		j.UpdatedAt = fresh.UpdatedAt
	}

	if j.Status == Error {
		return fmt.Errorf("%s", j.Error)
	}

	return nil
}

// snapshot returns a copy the caller may read and serialize while the
// workers keep mutating the original.
func (j *Job) snapshot() *Job {
	c := *j
	return &c
}

type WorkerPool struct {
	wg       *sync.WaitGroup
	jobChan  chan *Job
	store    Store
	capacity uint
}

func NewWorkerPool(store Store, capacity uint, workerCount uint) *WorkerPool {
	pool := &WorkerPool{
		wg:       &sync.WaitGroup{},
		jobChan:  make(chan *Job, capacity),
		store:    store,
		capacity: capacity,
	}

	for i := uint(0); i < workerCount; i++ {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			for job := range pool.jobChan {
				if job == nil {
					break
				}
				pool.process(job)
			}
		}()
	}

	return pool
}

// AddJob schedules `do` for execution. It fails with ErrJobQueueFull when
// no queue slot is available.
func (p *WorkerPool) AddJob(do func() (string, error)) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Status:    Init,
		CreatedAt: time.Now(),
		do:        do,
		done:      make(chan struct{}),
		store:     p.store,
	}

	if err := p.store.InsertJob(job); err != nil {
		return nil, err
	}

	// A worker owns the job pointer once it is on the channel, so the
	// status transition has to happen before the send.
	job.Status = Accepted
	p.updateJob(job)

	select {
	case p.jobChan <- job:
	default:
		job.Status = QueueFull
		p.updateJob(job)
		return job.snapshot(), fmt.Errorf("%w: %s", errors.ErrJobQueueFull, job.Status)
	}

	return job.snapshot(), nil
}

func (p *WorkerPool) Stop() {
	close(p.jobChan)
	p.wg.Wait()
}

func (p *WorkerPool) Capacity() uint {
	return p.capacity
}

func (p *WorkerPool) QueueSize() uint {
	return uint(len(p.jobChan))
}

// PoolStatus is a snapshot of the worker pool for the liveness endpoint.
type PoolStatus struct {
	JobsQueued int  `json:"jobsQueued"`
	Capacity   uint `json:"capacity"`
}

func (p *WorkerPool) Status() (PoolStatus, error) {
	return PoolStatus{
		JobsQueued: int(p.QueueSize()),
		Capacity:   p.Capacity(),
	}, nil
}

func (p *WorkerPool) process(job *Job) {
	defer close(job.done)

	result, err := job.do()
	if err != nil {
		job.Status = Error
		job.Error = err.Error()
		p.updateJob(job)
		return
	}

	job.Status = Complete
	job.Result = result
	p.updateJob(job)
}

func (p *WorkerPool) updateJob(job *Job) {
	job.UpdatedAt = time.Now()
	if err := p.store.UpdateJob(job); err != nil {
		log.
			WithFields(log.Fields{"error": err, "jobID": job.ID}).
			Warn("Could not update store entry for job")
	}
}
