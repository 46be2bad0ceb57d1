package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/invoice-ledger/internal/domain/notification"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolDispatchService implements the DispatchService interface on top
// of a bounded goroutine pool so slow SMS deliveries cannot pile up
// unbounded goroutines
type WorkerPoolDispatchService struct {
	baseService DispatchService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolDispatchService(
	baseService DispatchService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolDispatchService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolDispatchService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// DispatchJob submits a notification job to the worker pool for delivery.
func (s *WorkerPoolDispatchService) DispatchJob(ctx context.Context, job *notification.Job) error {
	logger := s.logger
	if job.CorrelationID != "" {
		logger = s.logger.With("correlation_id", job.CorrelationID)
	}

	logger.Info("Submitting notification job to worker pool",
		"event", string(job.Event),
		"fingerprint", job.Fingerprint,
	)

	// Create a channel to receive the result of the delivery
	resultChan := make(chan error, 1)

	jobID := uuid.New().String()
	s.mu.Lock()
	s.results[jobID] = resultChan
	s.mu.Unlock()

	// Create a copy of the job to avoid data races
	jobCopy := *job

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		err := s.baseService.DispatchJob(ctx, &jobCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, jobID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, jobID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit notification job to worker pool",
			"event", string(job.Event),
			"fingerprint", job.Fingerprint,
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolDispatchService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolDispatchService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolDispatchService) Capacity() int {
	return s.pool.Cap()
}
