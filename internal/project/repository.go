package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom-engine/internal/media"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

// Project is one saved editing session.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ZoomPercent int       `json:"zoom_percent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot is the serializable engine state: clips in array (stacking)
// order and the media pool, all geometry in base pixels.
type Snapshot struct {
	Clips []timeline.Clip `json:"clips"`
	Media []media.Asset   `json:"media"`
}

type Repository interface {
	CreateProject(ctx context.Context, name string) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	DeleteProject(ctx context.Context, id string) error

	SaveSnapshot(ctx context.Context, projectID string, zoomPercent int, snap Snapshot) error
	LoadSnapshot(ctx context.Context, projectID string) (Snapshot, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, name string) (*Project, error) {
	if name == "" {
		name = "Untitled Project"
	}
	now := time.Now()
	p := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		ZoomPercent: 100,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, zoom_percent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.ZoomPercent, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, zoom_percent, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)

	var p Project
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.ZoomPercent, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, zoom_percent, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		var p Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.ZoomPercent, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

// SaveSnapshot replaces the project's persisted clips and media in one
// transaction. A failure rolls everything back, so a retry sees the
// previous consistent state.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, projectID string, zoomPercent int, snap Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE projects SET zoom_percent = ?, updated_at = ? WHERE id = ?
	`, zoomPercent, time.Now().Format(time.RFC3339), projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project not found: %s", projectID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM clips WHERE project_id = ?", projectID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM media WHERE project_id = ?", projectID); err != nil {
		return err
	}

	for _, a := range snap.Media {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO media (id, project_id, display_name, type, duration_seconds, content_ref, status, error, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, projectID, a.DisplayName, string(a.Type), a.DurationSeconds,
			nullString(a.ContentRef), a.Status, nullString(a.Error), a.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
		for i, c := range a.Captions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO captions (media_id, position, word, start_s, end_s)
				VALUES (?, ?, ?, ?, ?)
			`, a.ID, i, c.Word, c.Start, c.End)
			if err != nil {
				return err
			}
		}
	}

	for i, c := range snap.Clips {
		chromaEnabled := 0
		chromaColor := ""
		chromaSimilarity := 0.0
		chromaSmoothness := 0.0
		if ck := c.Effects.ChromaKey; ck != nil {
			if ck.Enabled {
				chromaEnabled = 1
			}
			chromaColor = ck.Color
			chromaSimilarity = ck.Similarity
			chromaSmoothness = ck.Smoothness
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clips (id, project_id, track_id, asset_id, type, start_time, duration, media_offset, position,
				position_x, position_y, scale, opacity, filter, brightness, contrast, saturation,
				chroma_enabled, chroma_color, chroma_similarity, chroma_smoothness)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, projectID, c.TrackID, c.AssetID, string(c.Type), c.StartTime, c.Duration, c.MediaOffset, i,
			c.Transform.PositionX, c.Transform.PositionY, c.Transform.Scale, c.Transform.Opacity,
			nullString(c.Effects.Filter), c.Effects.Brightness, c.Effects.Contrast, c.Effects.Saturation,
			chromaEnabled, nullString(chromaColor), chromaSimilarity, chromaSmoothness)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSnapshot rebuilds the engine state persisted by SaveSnapshot, clips
// in their original stacking order.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	var snap Snapshot

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, type, duration_seconds, content_ref, status, error, created_at
		FROM media WHERE project_id = ? ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return snap, err
	}
	defer rows.Close()

	for rows.Next() {
		var a media.Asset
		var typ, createdAt string
		var contentRef, errMsg sql.NullString
		if err := rows.Scan(&a.ID, &a.DisplayName, &typ, &a.DurationSeconds, &contentRef, &a.Status, &errMsg, &createdAt); err != nil {
			return snap, err
		}
		a.Type = timeline.TrackType(typ)
		a.ContentRef = contentRef.String
		a.Error = errMsg.String
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		a.Captions, err = r.loadCaptions(ctx, a.ID)
		if err != nil {
			return snap, err
		}
		snap.Media = append(snap.Media, a)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	clipRows, err := r.db.QueryContext(ctx, `
		SELECT id, track_id, asset_id, type, start_time, duration, media_offset,
			position_x, position_y, scale, opacity, filter, brightness, contrast, saturation,
			chroma_enabled, chroma_color, chroma_similarity, chroma_smoothness
		FROM clips WHERE project_id = ? ORDER BY position
	`, projectID)
	if err != nil {
		return snap, err
	}
	defer clipRows.Close()

	for clipRows.Next() {
		var c timeline.Clip
		var typ string
		var filter, chromaColor sql.NullString
		var chromaEnabled int
		var chromaSimilarity, chromaSmoothness float64
		if err := clipRows.Scan(&c.ID, &c.TrackID, &c.AssetID, &typ, &c.StartTime, &c.Duration, &c.MediaOffset,
			&c.Transform.PositionX, &c.Transform.PositionY, &c.Transform.Scale, &c.Transform.Opacity,
			&filter, &c.Effects.Brightness, &c.Effects.Contrast, &c.Effects.Saturation,
			&chromaEnabled, &chromaColor, &chromaSimilarity, &chromaSmoothness); err != nil {
			return snap, err
		}
		c.Type = timeline.TrackType(typ)
		c.Effects.Filter = filter.String
		if chromaEnabled == 1 || chromaColor.Valid {
			c.Effects.ChromaKey = &timeline.ChromaKey{
				Enabled:    chromaEnabled == 1,
				Color:      chromaColor.String,
				Similarity: chromaSimilarity,
				Smoothness: chromaSmoothness,
			}
		}
		snap.Clips = append(snap.Clips, c)
	}
	return snap, clipRows.Err()
}

func (r *SQLiteRepository) loadCaptions(ctx context.Context, mediaID string) ([]media.Caption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT word, start_s, end_s FROM captions WHERE media_id = ? ORDER BY position
	`, mediaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captions []media.Caption
	for rows.Next() {
		var c media.Caption
		if err := rows.Scan(&c.Word, &c.Start, &c.End); err != nil {
			return nil, err
		}
		captions = append(captions, c)
	}
	return captions, rows.Err()
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
