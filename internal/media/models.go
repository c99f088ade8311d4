package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom-engine/internal/timeline"
)

const (
	StatusUploading = "uploading"
	StatusReady     = "ready"
	StatusFailed    = "failed"
)

// Caption is one transcribed word in source-media seconds, consumed
// verbatim from the captioning collaborator.
type Caption struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Asset is a source media item in the pool. ContentRef is an opaque handle
// resolved by the ingestion collaborator; Status records collaborator
// outcomes so one asset's failure never halts timeline interaction.
type Asset struct {
	ID              string             `json:"id"`
	DisplayName     string             `json:"display_name"`
	Type            timeline.TrackType `json:"type"`
	DurationSeconds float64            `json:"duration_seconds"`
	ContentRef      string             `json:"content_ref,omitempty"`
	Status          string             `json:"status"`
	Error           string             `json:"error,omitempty"`
	Captions        []Caption          `json:"captions,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	out := a
	out.Captions = make([]Caption, len(a.Captions))
	copy(out.Captions, a.Captions)
	return out
}

func NewID() string {
	return uuid.NewString()
}
