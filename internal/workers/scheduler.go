package workers

import (
	"context"
	"sync"
	"time"

	"aura/internal/metrics"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

const (
	defaultRecoveryInterval = time.Minute
	shutdownTimeout         = 30 * time.Second
)

// Scheduler manages and coordinates multiple workers
type Scheduler struct {
	workers  []Worker
	recovery time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	log      *logger.Logger
	started  bool
}

// healthRecorder is implemented by workers that track their own run stats
type healthRecorder interface {
	RecordRun(duration time.Duration)
	RecordError(err error, duration time.Duration)
}

// NewScheduler creates a new worker scheduler. A failed or panicked
// iteration is retried after the recovery interval instead of waiting a
// full worker interval.
func NewScheduler(recovery time.Duration) *Scheduler {
	if recovery <= 0 {
		recovery = defaultRecoveryInterval
	}
	return &Scheduler{
		workers:  make([]Worker, 0),
		recovery: recovery,
		log:      logger.Get(),
		started:  false,
	}
}

// RegisterWorker adds a worker to the scheduler
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warnw("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	s.workers = append(s.workers, w)
	s.log.Infow("Worker registered", "worker", w.Name(), "interval", w.Interval())
}

// Start begins running all registered workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}

	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Infow("Starting worker scheduler", "workers", len(s.workers))

	for _, worker := range s.workers {
		if !worker.Enabled() {
			s.log.Infow("Skipping disabled worker", "worker", worker.Name())
			continue
		}

		s.wg.Add(1)
		go s.runWorker(worker)
	}

	return nil
}

// Stop gracefully shuts down all workers, waiting for in-flight cycles
// to finish up to the shutdown timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	s.mu.Unlock()

	s.log.Info("Stopping worker scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var shutdownErr error
	select {
	case <-done:
		s.log.Info("All workers stopped gracefully")
	case <-time.After(shutdownTimeout):
		s.log.Warnf("Worker shutdown timed out after %s", shutdownTimeout)
		shutdownErr = errors.Wrapf(errors.ErrTimeout, "shutdown timeout after %s", shutdownTimeout)
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return shutdownErr
}

// runWorker executes a single worker in a loop. The first run happens
// immediately; after that the next run is scheduled a full interval out,
// or a recovery interval out when the last iteration failed.
func (s *Scheduler) runWorker(worker Worker) {
	defer s.wg.Done()

	s.log.Infow("Worker started", "worker", worker.Name())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Infow("Worker stopping", "worker", worker.Name())
			return

		case <-timer.C:
			next := worker.Interval()
			if ok := s.executeWorker(worker); !ok {
				next = s.recovery
			}
			timer.Reset(next)
		}
	}
}

// executeWorker runs a single iteration with panic recovery and reports
// whether it completed cleanly
func (s *Scheduler) executeWorker(worker Worker) (ok bool) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("Worker panicked",
				"worker", worker.Name(),
				"panic", r,
			)
			err := errors.Newf("panic: %v", r)
			if hr, has := worker.(healthRecorder); has {
				hr.RecordError(err, time.Since(start))
			}
			metrics.RecordWorkerExecution(worker.Name(), time.Since(start), err)
			ok = false
		}
	}()

	if err := worker.Run(s.ctx); err != nil {
		s.log.Errorw("Worker execution failed",
			"worker", worker.Name(),
			"error", err,
			"duration", time.Since(start),
		)
		if hr, has := worker.(healthRecorder); has {
			hr.RecordError(err, time.Since(start))
		}
		metrics.RecordWorkerExecution(worker.Name(), time.Since(start), err)
		return false
	}

	s.log.Debugw("Worker execution completed",
		"worker", worker.Name(),
		"duration", time.Since(start),
	)
	if hr, has := worker.(healthRecorder); has {
		hr.RecordRun(time.Since(start))
	}
	metrics.RecordWorkerExecution(worker.Name(), time.Since(start), nil)
	return true
}

// GetWorkers returns a list of all registered workers
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	return workers
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
