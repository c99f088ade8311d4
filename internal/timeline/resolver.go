package timeline

import "sort"

// PlaybackClip is one resolved layer at the playhead: the clip plus the
// position inside its source media, in seconds.
type PlaybackClip struct {
	Clip      Clip
	MediaTime float64
}

// Resolution is the compositor input for one instant. Active is the clip on
// the highest-priority covering video track; Background, when present, is
// the next one down and is what the active clip gets keyed over. Both are
// nil when no clip covers the playhead; the caller's fallback view is its
// own policy.
type Resolution struct {
	Active     *PlaybackClip
	Background *PlaybackClip
}

// Resolver determines which clips are live at an arbitrary playhead time.
// It always operates in storage space: the playhead is converted at the
// base rate, never the zoom-scaled one.
type Resolver struct {
	priorities map[string]int
	types      map[string]TrackType
}

func NewResolver(tracks []Track) *Resolver {
	r := &Resolver{
		priorities: make(map[string]int, len(tracks)),
		types:      make(map[string]TrackType, len(tracks)),
	}
	for _, t := range tracks {
		r.priorities[t.ID] = t.Priority
		r.types[t.ID] = t.Type
	}
	return r
}

// ResolveAt returns the active/background pair for playheadSeconds.
func (r *Resolver) ResolveAt(playheadSeconds float64, clips []Clip) Resolution {
	basePos := SecondsToBase(playheadSeconds)

	var covering []Clip
	for _, c := range clips {
		if r.types[c.TrackID] != TrackVideo {
			continue
		}
		if c.Contains(basePos) {
			covering = append(covering, c)
		}
	}

	sort.SliceStable(covering, func(i, j int) bool {
		return r.priorities[covering[i].TrackID] < r.priorities[covering[j].TrackID]
	})

	var res Resolution
	if len(covering) > 0 {
		res.Active = r.playbackClip(covering[0], basePos)
	}
	if len(covering) > 1 {
		res.Background = r.playbackClip(covering[1], basePos)
	}
	return res
}

// playbackClip computes the intra-source offset. MediaOffset was set to
// preserve continuity at clip creation and split time, so this is exact.
func (r *Resolver) playbackClip(c Clip, basePos float64) *PlaybackClip {
	mediaTime := ((basePos - c.StartTime) + c.MediaOffset) / BasePixelsPerSecond
	return &PlaybackClip{Clip: c.Clone(), MediaTime: mediaTime}
}
