package project

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cutroom/cutroom-engine/internal/db"
	"github.com/cutroom/cutroom-engine/internal/media"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewRepository(database.Conn())
}

func TestRepository_ProjectLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateProject(ctx, "My Edit")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if created.ZoomPercent != 100 {
		t.Errorf("new project zoom = %d, want 100", created.ZoomPercent)
	}

	got, err := repo.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got == nil || got.Name != "My Edit" {
		t.Fatalf("GetProject = %+v", got)
	}

	missing, err := repo.GetProject(ctx, "nope")
	if err != nil {
		t.Fatalf("GetProject(missing): %v", err)
	}
	if missing != nil {
		t.Error("GetProject on an unknown id should return nil")
	}

	if err := repo.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("ListProjects after delete = %d projects", len(projects))
	}
}

func TestRepository_CreateProjectDefaultName(t *testing.T) {
	repo := newTestRepo(t)

	p, err := repo.CreateProject(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Untitled Project" {
		t.Errorf("Name = %q, want Untitled Project", p.Name)
	}
}

func TestRepository_SnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.CreateProject(ctx, "Round Trip")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	snap := Snapshot{
		Clips: []timeline.Clip{
			{
				ID: "clip-2", TrackID: "video-1", AssetID: "asset-1",
				Type: timeline.TrackVideo, StartTime: 200, Duration: 100, MediaOffset: 40,
				Transform: timeline.Transform{PositionX: 5, PositionY: -3, Scale: 1.5, Opacity: 0.8},
				Effects: timeline.Effects{
					Filter: "grayscale", Brightness: 0.1,
					ChromaKey: &timeline.ChromaKey{Enabled: true, Color: "#00ff00", Similarity: 0.4, Smoothness: 0.1},
				},
			},
			{
				ID: "clip-1", TrackID: "audio-1", AssetID: "asset-1",
				Type: timeline.TrackAudio, StartTime: 0, Duration: 150,
				Transform: timeline.DefaultTransform(),
			},
		},
		Media: []media.Asset{
			{
				ID: "asset-1", DisplayName: "Interview.mp4", Type: timeline.TrackVideo,
				DurationSeconds: 60, ContentRef: "local://interview.mp4", Status: media.StatusReady,
				Captions: []media.Caption{
					{Word: "hello", Start: 0.5, End: 0.9},
					{Word: "world", Start: 1.0, End: 1.4},
				},
				CreatedAt: time.Now().UTC().Truncate(time.Second),
			},
		},
	}

	if err := repo.SaveSnapshot(ctx, p.ID, 250, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := repo.LoadSnapshot(ctx, p.ID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if len(loaded.Clips) != 2 {
		t.Fatalf("loaded %d clips, want 2", len(loaded.Clips))
	}
	// Stacking order is preserved, not start-time order.
	if loaded.Clips[0].ID != "clip-2" || loaded.Clips[1].ID != "clip-1" {
		t.Errorf("clip order = %s, %s", loaded.Clips[0].ID, loaded.Clips[1].ID)
	}

	c := loaded.Clips[0]
	if c.StartTime != 200 || c.Duration != 100 || c.MediaOffset != 40 {
		t.Errorf("clip geometry = %+v", c)
	}
	if c.Transform.Scale != 1.5 || c.Transform.Opacity != 0.8 {
		t.Errorf("clip transform = %+v", c.Transform)
	}
	if c.Effects.Filter != "grayscale" {
		t.Errorf("clip filter = %q", c.Effects.Filter)
	}
	if c.Effects.ChromaKey == nil || c.Effects.ChromaKey.Color != "#00ff00" || c.Effects.ChromaKey.Similarity != 0.4 {
		t.Errorf("chroma key = %+v", c.Effects.ChromaKey)
	}
	if loaded.Clips[1].Effects.ChromaKey != nil {
		t.Error("clip without chroma key should load with nil chroma key")
	}

	if len(loaded.Media) != 1 {
		t.Fatalf("loaded %d assets, want 1", len(loaded.Media))
	}
	a := loaded.Media[0]
	if a.DisplayName != "Interview.mp4" || a.Status != media.StatusReady || a.ContentRef != "local://interview.mp4" {
		t.Errorf("asset = %+v", a)
	}
	if len(a.Captions) != 2 || a.Captions[0].Word != "hello" || a.Captions[1].Start != 1.0 {
		t.Errorf("captions = %+v", a.Captions)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.ZoomPercent != 250 {
		t.Errorf("saved zoom = %d, want 250", got.ZoomPercent)
	}
}

func TestRepository_SaveSnapshotReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, _ := repo.CreateProject(ctx, "Replace")

	first := Snapshot{Clips: []timeline.Clip{
		{ID: "old", TrackID: "video-1", AssetID: "a", Type: timeline.TrackVideo, Duration: 100, Transform: timeline.DefaultTransform()},
	}}
	if err := repo.SaveSnapshot(ctx, p.ID, 100, first); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}

	second := Snapshot{Clips: []timeline.Clip{
		{ID: "new", TrackID: "video-1", AssetID: "a", Type: timeline.TrackVideo, Duration: 50, Transform: timeline.DefaultTransform()},
	}}
	if err := repo.SaveSnapshot(ctx, p.ID, 100, second); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	loaded, err := repo.LoadSnapshot(ctx, p.ID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(loaded.Clips) != 1 || loaded.Clips[0].ID != "new" {
		t.Errorf("loaded clips = %+v, want only the replacement", loaded.Clips)
	}
}

func TestRepository_SaveSnapshotUnknownProject(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveSnapshot(context.Background(), "missing", 100, Snapshot{})
	if err == nil {
		t.Fatal("saving to an unknown project should fail")
	}
}

func TestRepository_Config(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	v, err := repo.GetConfig(ctx, "auth_token")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if v != "" {
		t.Errorf("unset config = %q, want empty", v)
	}

	if err := repo.SetConfig(ctx, "auth_token", "secret"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := repo.SetConfig(ctx, "auth_token", "rotated"); err != nil {
		t.Fatalf("SetConfig upsert: %v", err)
	}

	v, err = repo.GetConfig(ctx, "auth_token")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if v != "rotated" {
		t.Errorf("config = %q, want rotated", v)
	}
}
