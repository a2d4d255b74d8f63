package scheduler

import (
	"context"
	"time"

	"contra-feed/shared/monitoring"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Metrics defines the common interface for agent metrics
type Metrics interface {
	// GetSummary returns a human-readable summary of the run
	GetSummary() string
}

// AgentEvents provides callbacks for monitoring agent execution
type AgentEvents struct {
	OnSuccess         func(metrics Metrics, duration time.Duration)
	OnPartialFailure  func(err error, duration time.Duration)
	OnCriticalFailure func(err error, duration time.Duration)
}

// Agent is a unit of scheduled background work.
type Agent interface {
	Name() string
	RunOnce(ctx context.Context, events *AgentEvents) error
	Initialize() error
}

type Scheduler struct {
	schedule   string
	healthPort int
	monitor    *monitoring.Monitor
	agent      Agent
	cron       *cron.Cron
	logger     *zap.Logger
}

func New(schedule string, healthPort int, agent Agent, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		schedule:   schedule,
		healthPort: healthPort,
		monitor:    monitoring.NewMonitor(logger),
		agent:      agent,
		logger:     logger,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

func (s *Scheduler) Monitor() *monitoring.Monitor { return s.monitor }

// Start runs the agent on schedule and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.agent.Initialize(); err != nil {
		return goerr.Wrap(err, "failed to initialize agent", goerr.V("agent", s.agent.Name()))
	}

	healthServer := monitoring.NewHealthServer(s.monitor, s.healthPort, s.logger)
	healthServer.Start()

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled run failed", zap.String("agent", s.agent.Name()), zap.Error(err))
		}
	})
	if err != nil {
		return goerr.Wrap(err, "failed to add cron job", goerr.V("schedule", s.schedule))
	}

	s.logger.Info("scheduler started", zap.String("agent", s.agent.Name()), zap.String("schedule", s.schedule))
	s.cron.Start()

	<-ctx.Done()
	s.logger.Info("scheduler stopping", zap.String("agent", s.agent.Name()))

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("health server shutdown", zap.Error(err))
	}
	return ctx.Err()
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	startTime := time.Now()
	agentName := s.agent.Name()

	s.logger.Info("starting run", zap.String("agent", agentName))

	events := &AgentEvents{
		OnSuccess: func(metrics Metrics, duration time.Duration) {
			s.monitor.RecordSuccess(metrics.GetSummary(), duration)
		},
		OnPartialFailure: func(err error, duration time.Duration) {
			s.monitor.RecordPartialFailure(goerr.Wrap(err, "partial failure", goerr.V("agent", agentName)), duration)
		},
		OnCriticalFailure: func(err error, duration time.Duration) {
			s.monitor.RecordCriticalFailure(goerr.Wrap(err, "critical failure", goerr.V("agent", agentName)), duration)
		},
	}

	if err := s.agent.RunOnce(ctx, events); err != nil {
		s.monitor.RecordCriticalFailure(err, time.Since(startTime))
		return goerr.Wrap(err, "run failed", goerr.V("agent", agentName))
	}

	return nil
}
