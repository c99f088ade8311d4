package project

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cutroom/cutroom-engine/internal/media"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

// Session binds one open project to the live engine and media pool. The
// engine assumes a single logical owner, so the session serializes every
// engine call behind one mutex instead of pushing locking into the engine.
type Session struct {
	mu      sync.Mutex
	engine  *timeline.Engine
	pool    *media.Pool
	repo    Repository
	project *Project
	logger  *slog.Logger
}

func NewSession(engine *timeline.Engine, pool *media.Pool, repo Repository, logger *slog.Logger) *Session {
	return &Session{
		engine: engine,
		pool:   pool,
		repo:   repo,
		logger: logger,
	}
}

// Open loads the most recently updated project, creating one on first run,
// and installs its snapshot into the engine and pool.
func (s *Session) Open(ctx context.Context) (*Project, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	var p *Project
	if len(projects) > 0 {
		p = projects[0]
	} else {
		p, err = s.repo.CreateProject(ctx, "")
		if err != nil {
			return nil, err
		}
	}

	snap, err := s.repo.LoadSnapshot(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", p.ID, err)
	}

	s.mu.Lock()
	s.project = p
	s.engine.Restore(snap.Clips)
	s.engine.SetZoom(p.ZoomPercent)
	s.pool.Restore(snap.Media)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("project opened", "project_id", p.ID, "name", p.Name,
			"clips", len(snap.Clips), "media", len(snap.Media))
	}
	return p, nil
}

// Project returns the open project record.
func (s *Session) Project() *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// WithEngine runs fn with exclusive access to the engine.
func (s *Session) WithEngine(fn func(*timeline.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Pool returns the media pool; it carries its own lock.
func (s *Session) Pool() *media.Pool {
	return s.pool
}

// Dirty reports whether either the clip collection or the media pool has
// unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	engineDirty := s.engine.Dirty()
	s.mu.Unlock()
	return engineDirty || s.pool.Dirty()
}

// Save persists the current snapshot. On failure in-memory state is
// untouched and the dirty flags stay set so the next tick retries.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.project == nil {
		s.mu.Unlock()
		return fmt.Errorf("no open project")
	}
	projectID := s.project.ID
	zoom := s.engine.ZoomPercent()
	snap := Snapshot{
		Clips: s.engine.Snapshot(),
		Media: s.pool.Snapshot(),
	}
	s.mu.Unlock()

	if err := s.repo.SaveSnapshot(ctx, projectID, zoom, snap); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.mu.Lock()
	s.engine.MarkClean()
	s.mu.Unlock()
	s.pool.MarkClean()

	if s.logger != nil {
		s.logger.Info("project saved", "project_id", projectID, "clips", len(snap.Clips), "media", len(snap.Media))
	}
	return nil
}
