package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrQueueClosed = errors.New("job queue is closed")
)

// WorkerPool is an in-process Notifier. Jobs sit in a bounded buffer and
// are processed by a fixed number of goroutines. Failed jobs are logged
// and dropped
type WorkerPool struct {
	jobs    chan VerificationEmailJob
	handle  JobHandler
	workers int

	running atomic.Int32
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool initializes a new pool that holds at most size queued
// jobs at once
func NewWorkerPool(workers, size int, h JobHandler) *WorkerPool {
	zap.L().Debug("Initializing job queue", zap.Int("workers", workers), zap.Int("max_jobs", size))

	return &WorkerPool{
		jobs:    make(chan VerificationEmailJob, size),
		handle:  h,
		workers: workers,
	}
}

// StartWorkerPool starts the workers. ctx is passed to every job
func (q *WorkerPool) StartWorkerPool(ctx context.Context) {
	for range q.workers {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

func (q *WorkerPool) worker(ctx context.Context) {
	defer q.wg.Done()

	for job := range q.jobs {
		q.running.Add(1)
		err := q.handle(ctx, job)
		q.running.Add(-1)

		if err != nil {
			zap.L().Error("Notification job finished with an error",
				zap.Uint("user_id", job.UserID),
				zap.Error(err))
		} else {
			zap.L().Debug("Notification job finished", zap.Uint("user_id", job.UserID))
		}
	}
}

// Enqueue never blocks. A full queue drops the job with ErrQueueFull
func (q *WorkerPool) Enqueue(_ context.Context, job VerificationEmailJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Running returns the number of jobs being processed right now
func (q *WorkerPool) Running() int {
	return int(q.running.Load())
}

// Close stops accepting jobs and waits for the queued ones to finish
func (q *WorkerPool) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}

	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}
