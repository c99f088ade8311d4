package timeline

import (
	"github.com/google/uuid"
)

// BasePixelsPerSecond is the fixed storage rate: all clip geometry is
// persisted in base pixels at 10 units per second, independent of zoom.
const BasePixelsPerSecond = 10.0

type TrackType string

const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
)

// Track is a fixed timeline lane. Lower Priority resolves first at playback
// time. Tracks are not created or destroyed at runtime.
type Track struct {
	ID       string    `json:"id"`
	Type     TrackType `json:"type"`
	Priority int       `json:"priority"`
}

// DefaultTracks returns the fixed track set: two video lanes over two audio
// lanes, in static priority order.
func DefaultTracks() []Track {
	return []Track{
		{ID: "video-1", Type: TrackVideo, Priority: 0},
		{ID: "video-2", Type: TrackVideo, Priority: 1},
		{ID: "audio-1", Type: TrackAudio, Priority: 2},
		{ID: "audio-2", Type: TrackAudio, Priority: 3},
	}
}

// Transform places a clip's frame in the composition space.
type Transform struct {
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Scale     float64 `json:"scale"`
	Opacity   float64 `json:"opacity"`
}

func DefaultTransform() Transform {
	return Transform{Scale: 1, Opacity: 1}
}

// ChromaKey configures keying of a clip over the background clip.
type ChromaKey struct {
	Enabled    bool    `json:"enabled"`
	Color      string  `json:"color"`
	Similarity float64 `json:"similarity"`
	Smoothness float64 `json:"smoothness"`
}

// Effects holds the filter preset and numeric adjustments applied by the
// compositor. The engine only stores and copies these values.
type Effects struct {
	Filter     string     `json:"filter,omitempty"`
	Brightness float64    `json:"brightness"`
	Contrast   float64    `json:"contrast"`
	Saturation float64    `json:"saturation"`
	ChromaKey  *ChromaKey `json:"chroma_key,omitempty"`
}

// Clip is a placed reference to a media asset on a track. StartTime,
// Duration and MediaOffset are base pixels.
type Clip struct {
	ID          string    `json:"id"`
	TrackID     string    `json:"track_id"`
	AssetID     string    `json:"asset_id"`
	Type        TrackType `json:"type"`
	StartTime   float64   `json:"start_time"`
	Duration    float64   `json:"duration"`
	MediaOffset float64   `json:"media_offset"`
	Transform   Transform `json:"transform"`
	Effects     Effects   `json:"effects"`
}

// End returns the clip's exclusive end position in base pixels.
func (c Clip) End() float64 {
	return c.StartTime + c.Duration
}

// Contains reports whether the base-pixel position falls inside the clip's
// half-open [StartTime, StartTime+Duration) interval.
func (c Clip) Contains(basePos float64) bool {
	return basePos >= c.StartTime && basePos < c.End()
}

// Clone returns a deep copy of the clip. The chroma-key sub-record is
// copied by value so history snapshots and clipboard entries never alias
// live state.
func (c Clip) Clone() Clip {
	out := c
	if c.Effects.ChromaKey != nil {
		ck := *c.Effects.ChromaKey
		out.Effects.ChromaKey = &ck
	}
	return out
}

func NewID() string {
	return uuid.NewString()
}
