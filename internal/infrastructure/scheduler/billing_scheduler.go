package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/propstack/backend/internal/application/leasing"
	"github.com/propstack/backend/internal/application/payments"
	"github.com/propstack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LeaseSweeper runs the lease lifecycle sweeps
type LeaseSweeper interface {
	ExpireAndRenewLeases(ctx context.Context) (leasing.SweepResult, error)
	ActivateLeasesStartingToday(ctx context.Context) (leasing.SweepResult, error)
}

// PaymentIssuer issues payment obligations for due leases
type PaymentIssuer interface {
	IssueDuePayments(ctx context.Context) (payments.BillingRunResult, error)
}

// job is a named recurring task with its own interval and concurrency guard
type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context)

	// number of in-flight runs, bounded by maxConcurrent
	inFlight      atomic.Int32
	maxConcurrent int32
}

// BillingScheduler drives the recurring lease and billing sweeps. Each job
// ticks on its own interval; a tick that finds the job at its concurrency
// limit is skipped, never queued.
type BillingScheduler struct {
	config  config.SchedulerConfig
	leases  LeaseSweeper
	billing PaymentIssuer
	logger  *zap.Logger

	jobs      []*job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt map[string]time.Time
}

// NewBillingScheduler creates a scheduler for the lease lifecycle and billing jobs
func NewBillingScheduler(cfg config.SchedulerConfig, leases LeaseSweeper, billing PaymentIssuer, logger *zap.Logger) (*BillingScheduler, error) {
	if cfg.SweepInterval <= 0 || cfg.BillingInterval <= 0 || cfg.MaxConcurrentRun < 1 || cfg.JobTimeout <= 0 {
		return nil, ErrInvalidConfig
	}

	s := &BillingScheduler{
		config:    cfg,
		leases:    leases,
		billing:   billing,
		logger:    logger.Named("scheduler"),
		lastRunAt: make(map[string]time.Time),
	}

	s.jobs = []*job{
		s.newJob("lease_expiration_sweep", cfg.SweepInterval, s.runExpirationSweep),
		s.newJob("lease_activation_sweep", cfg.SweepInterval, s.runActivationSweep),
		s.newJob("billing_run", cfg.BillingInterval, s.runBilling),
	}

	return s, nil
}

func (s *BillingScheduler) newJob(name string, interval time.Duration, run func(ctx context.Context)) *job {
	return &job{
		name:          name,
		interval:      interval,
		run:           run,
		maxConcurrent: int32(s.config.MaxConcurrentRun),
	}
}

// Start starts a ticker loop per job
func (s *BillingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.tickLoop(ctx, j)
	}

	s.logger.Info("Billing scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
		zap.Duration("billing_interval", s.config.BillingInterval),
		zap.Int("max_concurrent_run", s.config.MaxConcurrentRun),
	)

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight runs
func (s *BillingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Billing scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Billing scheduler stop timed out")
		return ctx.Err()
	}
}

// tickLoop fires the job once per interval until the context is cancelled
func (s *BillingScheduler) tickLoop(ctx context.Context, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(ctx, j)
		}
	}
}

// dispatch runs the job unless its concurrency limit is already reached
func (s *BillingScheduler) dispatch(ctx context.Context, j *job) {
	if j.inFlight.Add(1) > j.maxConcurrent {
		j.inFlight.Add(-1)
		s.logger.Warn("Skipping job run, previous runs still in flight",
			zap.String("job", j.name),
		)
		return
	}

	s.mu.Lock()
	s.lastRunAt[j.name] = time.Now()
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer j.inFlight.Add(-1)

		runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()

		j.run(runCtx)
	}()
}

func (s *BillingScheduler) runExpirationSweep(ctx context.Context) {
	result, err := s.leases.ExpireAndRenewLeases(ctx)
	if err != nil {
		s.logger.Error("Lease expiration sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Lease expiration sweep completed",
		zap.Int("processed", result.Processed),
		zap.Int("renewed", result.Renewed),
		zap.Int("failed", result.Failed),
	)
}

func (s *BillingScheduler) runActivationSweep(ctx context.Context) {
	result, err := s.leases.ActivateLeasesStartingToday(ctx)
	if err != nil {
		s.logger.Error("Lease activation sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Lease activation sweep completed",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
}

func (s *BillingScheduler) runBilling(ctx context.Context) {
	result, err := s.billing.IssueDuePayments(ctx)
	if err != nil {
		s.logger.Error("Billing run failed", zap.Error(err))
		return
	}
	s.logger.Info("Billing run completed",
		zap.Int("issued", result.Issued),
		zap.Int("failed", result.Failed),
	)
}

// TriggerExpirationSweep runs the expiration sweep outside its schedule.
// Uses a background context so the run survives the triggering HTTP request.
func (s *BillingScheduler) TriggerExpirationSweep() error {
	return s.trigger("lease_expiration_sweep")
}

// TriggerActivationSweep runs the activation sweep outside its schedule
func (s *BillingScheduler) TriggerActivationSweep() error {
	return s.trigger("lease_activation_sweep")
}

// TriggerBillingRun runs the billing job outside its schedule
func (s *BillingScheduler) TriggerBillingRun() error {
	return s.trigger("billing_run")
}

func (s *BillingScheduler) trigger(name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	for _, j := range s.jobs {
		if j.name != name {
			continue
		}
		if j.inFlight.Load() >= j.maxConcurrent {
			return ErrJobAlreadyRunning
		}
		s.dispatch(context.Background(), j)
		return nil
	}
	return ErrInvalidConfig
}

// GetStatus returns the current scheduler state for the admin endpoint
func (s *BillingScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]map[string]any, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := map[string]any{
			"name":      j.name,
			"interval":  j.interval.String(),
			"in_flight": j.inFlight.Load(),
		}
		if last, ok := s.lastRunAt[j.name]; ok {
			entry["last_run_at"] = last
		}
		jobs = append(jobs, entry)
	}

	return map[string]any{
		"enabled":    s.config.Enabled,
		"is_running": s.isRunning,
		"jobs":       jobs,
	}
}
