package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"reconai/pkg/logger"
)

// ScanQueue caps how many scans execute at once with a channel semaphore.
// Requests past the cap block until a slot frees up. The queue is an
// injected handle, not process-global state.
type ScanQueue struct {
	semaphore chan struct{}
	running   int
	queued    int
	mu        sync.Mutex
	logger    *logger.Logger
}

func NewScanQueue(maxConcurrent int) *ScanQueue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ScanQueue{
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    logger.NewLogger(logrus.InfoLevel),
	}
}

// Execute blocks until a slot is available, runs fn, and releases the slot.
// A caller cancelled while still waiting gives up its place and gets ctx.Err()
// back without ever running fn.
func (q *ScanQueue) Execute(ctx context.Context, fn func() error) error {
	q.mu.Lock()
	q.queued++
	currentQueued := q.queued
	currentRunning := q.running
	q.mu.Unlock()

	q.logger.WithFields(logger.Fields{
		"queued":  currentQueued,
		"running": currentRunning,
		"slots":   cap(q.semaphore),
	}).Debug("Scan added to queue")

	select {
	case q.semaphore <- struct{}{}:
	case <-ctx.Done():
		q.mu.Lock()
		q.queued--
		q.mu.Unlock()
		return ctx.Err()
	}

	q.mu.Lock()
	q.queued--
	q.running++
	q.mu.Unlock()

	defer func() {
		<-q.semaphore
		q.mu.Lock()
		q.running--
		q.mu.Unlock()
	}()

	return fn()
}

// Status returns the current queue occupancy.
func (q *ScanQueue) Status() (running, queued, maxConcurrent int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running, q.queued, cap(q.semaphore)
}
