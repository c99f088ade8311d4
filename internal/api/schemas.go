package api

import (
	"github.com/cutroom/cutroom-engine/internal/media"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ClipCount   int     `json:"clip_count"`
	MediaCount  int     `json:"media_count"`
	ZoomPercent int     `json:"zoom_percent"`
	EndSeconds  float64 `json:"end_seconds"`
	CanUndo     bool    `json:"can_undo"`
	CanRedo     bool    `json:"can_redo"`
	Dirty       bool    `json:"dirty"`
}

type TimelineResponse struct {
	Tracks      []timeline.Track `json:"tracks"`
	Clips       []timeline.Clip  `json:"clips"`
	ZoomPercent int              `json:"zoom_percent"`
	EndSeconds  float64          `json:"end_seconds"`
}

type InsertClipRequest struct {
	AssetID      string   `json:"asset_id"`
	TrackID      string   `json:"track_id"`
	StartSeconds *float64 `json:"start_seconds,omitempty"`
	EndSeconds   *float64 `json:"end_seconds,omitempty"`
}

type UpdateClipRequest struct {
	TrackID         string              `json:"track_id,omitempty"`
	StartSeconds    *float64            `json:"start_seconds,omitempty"`
	DurationSeconds *float64            `json:"duration_seconds,omitempty"`
	Transform       *timeline.Transform `json:"transform,omitempty"`
	Effects         *timeline.Effects   `json:"effects,omitempty"`
}

type SplitClipRequest struct {
	AtSeconds float64 `json:"at_seconds"`
}

type PasteRequest struct {
	AtSeconds float64 `json:"at_seconds"`
}

type ZoomRequest struct {
	// Action is one of "in", "out", "set", "fit".
	Action  string `json:"action"`
	Percent int    `json:"percent,omitempty"`
}

type ZoomResponse struct {
	ZoomPercent           int     `json:"zoom_percent"`
	VisualPixelsPerSecond float64 `json:"visual_pixels_per_second"`
}

type HistoryResponse struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

type PlaybackClipResponse struct {
	Clip      timeline.Clip `json:"clip"`
	MediaTime float64       `json:"media_time"`
}

type ResolveResponse struct {
	Active     *PlaybackClipResponse `json:"active"`
	Background *PlaybackClipResponse `json:"background"`
}

type AddMediaRequest struct {
	DisplayName     string  `json:"display_name"`
	Type            string  `json:"type"`
	DurationSeconds float64 `json:"duration_seconds"`
	UploadFilename  string  `json:"upload_filename,omitempty"`
}

type MediaListResponse struct {
	Media []media.Asset `json:"media"`
}

type SetCaptionsRequest struct {
	Captions []media.Caption `json:"captions"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Hits []media.SearchHit `json:"hits"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ZoomPercent int    `json:"zoom_percent"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func resolutionToResponse(res timeline.Resolution) ResolveResponse {
	out := ResolveResponse{}
	if res.Active != nil {
		out.Active = &PlaybackClipResponse{Clip: res.Active.Clip, MediaTime: res.Active.MediaTime}
	}
	if res.Background != nil {
		out.Background = &PlaybackClipResponse{Clip: res.Background.Clip, MediaTime: res.Background.MediaTime}
	}
	return out
}
