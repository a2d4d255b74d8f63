package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

type summary string

func (s summary) GetSummary() string { return string(s) }

type stubAgent struct {
	runs int
	err  error
}

func (a *stubAgent) Name() string      { return "stub" }
func (a *stubAgent) Initialize() error { return nil }

func (a *stubAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	a.runs++
	if a.err != nil {
		return a.err
	}
	events.OnSuccess(summary("ok"), time.Millisecond)
	return nil
}

func TestRunOnce(t *testing.T) {
	t.Run("Success keeps monitor healthy", func(t *testing.T) {
		agent := &stubAgent{}
		s := New("@every 1h", 0, agent, nil)
		gt.NoError(t, s.RunOnce(context.Background()))
		gt.Value(t, agent.runs).Equal(1)
		gt.Bool(t, s.Monitor().IsHealthy()).True()
	})

	t.Run("Error marks monitor unhealthy", func(t *testing.T) {
		sentinel := errors.New("quota exceeded")
		s := New("@every 1h", 0, &stubAgent{err: sentinel}, nil)
		err := s.RunOnce(context.Background())
		gt.Error(t, err).Is(sentinel)
		gt.Bool(t, s.Monitor().IsHealthy()).False()
	})
}
