package service

import (
	"context"
	"time"

	"github.com/ds0903/post-bot/internal/model"
)

// SettingsStore reads the process-wide spam configuration.
type SettingsStore interface {
	Get(ctx context.Context) (model.SpamSettings, error)
}

// SubmissionTimes reads a user's most recent submission timestamp.
type SubmissionTimes interface {
	LastSubmissionTime(ctx context.Context, userID int64) (time.Time, bool, error)
}

// GateResult is the outcome of a spam-gate check. When Allowed is false,
// RemainingMinutes holds the wait rounded up to whole minutes, never zero.
type GateResult struct {
	Allowed          bool
	RemainingMinutes int
}

// SpamGate throttles resubmissions: with protection enabled, a user must
// wait the configured delay after their previous submission.
type SpamGate struct {
	settings SettingsStore
	posts    SubmissionTimes
	now      func() time.Time
}

func NewSpamGate(settings SettingsStore, posts SubmissionTimes) *SpamGate {
	return &SpamGate{settings: settings, posts: posts, now: time.Now}
}

// Check evaluates the gate for a user. First-ever submissions always pass.
func (g *SpamGate) Check(ctx context.Context, userID int64) (GateResult, error) {
	cfg, err := g.settings.Get(ctx)
	if err != nil {
		return GateResult{}, err
	}
	if !cfg.Enabled {
		return GateResult{Allowed: true}, nil
	}

	last, ok, err := g.posts.LastSubmissionTime(ctx, userID)
	if err != nil {
		return GateResult{}, err
	}
	if !ok {
		return GateResult{Allowed: true}, nil
	}

	delay := time.Duration(cfg.DelayMinutes) * time.Minute
	elapsed := g.now().Sub(last)
	if elapsed >= delay {
		return GateResult{Allowed: true}, nil
	}

	remaining := delay - elapsed
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return GateResult{Allowed: false, RemainingMinutes: minutes}, nil
}
