package timeline

import "testing"

func TestResolver_NoClipAtPlayhead(t *testing.T) {
	r := NewResolver(DefaultTracks())

	clips := []Clip{testClip("a", 0)} // covers [0, 100) base = [0, 10) seconds
	res := r.ResolveAt(15, clips)

	if res.Active != nil || res.Background != nil {
		t.Error("resolution past the last clip should be empty")
	}
}

func TestResolver_TrackPriorityTieBreak(t *testing.T) {
	r := NewResolver(DefaultTracks())

	lower := testClip("lower", 0)
	lower.TrackID = "video-2"
	upper := testClip("upper", 0)
	upper.TrackID = "video-1"

	// Insertion order must not matter, only track priority.
	res := r.ResolveAt(5, []Clip{lower, upper})

	if res.Active == nil || res.Active.Clip.ID != "upper" {
		t.Fatalf("active clip should be on the higher-priority track")
	}
	if res.Background == nil || res.Background.Clip.ID != "lower" {
		t.Fatalf("background clip should be the next-highest track")
	}
}

func TestResolver_IgnoresAudioTracks(t *testing.T) {
	r := NewResolver(DefaultTracks())

	audio := testClip("audio", 0)
	audio.TrackID = "audio-1"
	audio.Type = TrackAudio

	res := r.ResolveAt(5, []Clip{audio})
	if res.Active != nil {
		t.Error("audio clips must not resolve as active video")
	}
}

func TestResolver_MediaTime(t *testing.T) {
	r := NewResolver(DefaultTracks())

	clip := testClip("a", 80)
	clip.MediaOffset = 80

	// Playhead at 12s = base 120; 120-80+80 = 120 base into the media = 12s.
	res := r.ResolveAt(12, []Clip{clip})
	if res.Active == nil {
		t.Fatal("expected an active clip")
	}
	if res.Active.MediaTime != 12 {
		t.Errorf("MediaTime = %v, want 12", res.Active.MediaTime)
	}
}

func TestResolver_HalfOpenInterval(t *testing.T) {
	r := NewResolver(DefaultTracks())
	clips := []Clip{testClip("a", 0)} // [0, 100) base

	if res := r.ResolveAt(0, clips); res.Active == nil {
		t.Error("clip start is inclusive")
	}
	if res := r.ResolveAt(10, clips); res.Active != nil {
		t.Error("clip end is exclusive")
	}
}
