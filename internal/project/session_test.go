package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cutroom/cutroom-engine/internal/db"
	"github.com/cutroom/cutroom-engine/internal/media"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

func newTestSession(t *testing.T, repo Repository) *Session {
	t.Helper()
	engine := timeline.NewEngine(nil)
	pool := media.NewPool(media.NewStubIngestor(nil), media.NewStubCaptioner(nil), media.NewStubSearcher(nil), nil)
	return NewSession(engine, pool, repo, nil)
}

func newSQLiteTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "session.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewRepository(database.Conn())
}

func TestSession_OpenCreatesFirstProject(t *testing.T) {
	repo := newSQLiteTestRepo(t)
	s := newTestSession(t, repo)

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Name != "Untitled Project" {
		t.Errorf("first project name = %q", p.Name)
	}
	if s.Dirty() {
		t.Error("freshly opened session should be clean")
	}
}

func TestSession_SaveAndReopen(t *testing.T) {
	repo := newSQLiteTestRepo(t)
	ctx := context.Background()

	s := newTestSession(t, repo)
	p, err := s.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var clipID string
	s.WithEngine(func(e *timeline.Engine) {
		clip, ok := e.InsertFromAsset("asset-1", timeline.TrackVideo, 20, "video-1", nil)
		if !ok {
			t.Fatal("insert failed")
		}
		clipID = clip.ID
		e.SetZoom(200)
	})
	s.Pool().Add("Beach.mp4", timeline.TrackVideo, 20)

	if !s.Dirty() {
		t.Fatal("session should be dirty after edits")
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Error("successful save should clear the dirty flags")
	}

	// A fresh session resumes the same project with its state intact.
	reopened := newTestSession(t, repo)
	p2, err := reopened.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if p2.ID != p.ID {
		t.Errorf("reopened project %s, want %s", p2.ID, p.ID)
	}

	reopened.WithEngine(func(e *timeline.Engine) {
		if _, ok := e.FindClip(clipID); !ok {
			t.Error("saved clip missing after reopen")
		}
		if e.ZoomPercent() != 200 {
			t.Errorf("zoom = %d, want 200", e.ZoomPercent())
		}
	})
	if got := reopened.Pool().List(); len(got) != 1 {
		t.Errorf("reopened pool = %d assets, want 1", len(got))
	}
}

// failingRepo wraps a working repository but refuses snapshot writes.
type failingRepo struct {
	Repository
}

func (failingRepo) SaveSnapshot(ctx context.Context, projectID string, zoomPercent int, snap Snapshot) error {
	return errors.New("disk full")
}

func TestSession_FailedSaveKeepsDirty(t *testing.T) {
	repo := newSQLiteTestRepo(t)
	s := newTestSession(t, failingRepo{repo})

	ctx := context.Background()
	if _, err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}

	s.WithEngine(func(e *timeline.Engine) {
		e.InsertFromAsset("asset-1", timeline.TrackVideo, 20, "video-1", nil)
	})

	if err := s.Save(ctx); err == nil {
		t.Fatal("save through a failing repository should error")
	}
	if !s.Dirty() {
		t.Error("failed save must leave the dirty flags set for retry")
	}
}

func TestSession_SaveWithoutOpenProject(t *testing.T) {
	s := newTestSession(t, newSQLiteTestRepo(t))
	if err := s.Save(context.Background()); err == nil {
		t.Fatal("saving before Open should error")
	}
}
