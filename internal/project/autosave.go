package project

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Autosaver watches the session's dirty state and saves after changes
// have been quiet for the configured period. A failed save logs and leaves
// the dirty flags set, so the next tick retries.
type Autosaver struct {
	session     *Session
	quietPeriod time.Duration
	interval    time.Duration
	logger      *slog.Logger
	running     atomic.Bool

	dirtySince time.Time
}

func NewAutosaver(session *Session, quietPeriod time.Duration, logger *slog.Logger) *Autosaver {
	if quietPeriod <= 0 {
		quietPeriod = 3 * time.Second
	}
	return &Autosaver{
		session:     session,
		quietPeriod: quietPeriod,
		interval:    time.Second,
		logger:      logger,
	}
}

func (a *Autosaver) Start(ctx context.Context) {
	if a.running.Swap(true) {
		return
	}

	if a.logger != nil {
		a.logger.Info("autosave started", "quiet_period", a.quietPeriod.String())
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if a.logger != nil {
				a.logger.Info("autosave stopping")
			}
			a.flush()
			a.running.Store(false)
			return
		case now := <-ticker.C:
			a.tick(now)
		}
	}
}

func (a *Autosaver) tick(now time.Time) {
	if !a.session.Dirty() {
		a.dirtySince = time.Time{}
		return
	}
	if a.dirtySince.IsZero() {
		a.dirtySince = now
		return
	}
	if now.Sub(a.dirtySince) < a.quietPeriod {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.session.Save(ctx); err != nil {
		if a.logger != nil {
			a.logger.Warn("autosave failed", "error", err)
		}
		// Leave dirtySince set so the next tick retries immediately.
		return
	}
	a.dirtySince = time.Time{}
}

// flush performs a final save on shutdown when changes are pending.
func (a *Autosaver) flush() {
	if !a.session.Dirty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.session.Save(ctx); err != nil && a.logger != nil {
		a.logger.Warn("final save failed", "error", err)
	}
}
