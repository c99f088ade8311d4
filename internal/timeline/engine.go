package timeline

import (
	"log/slog"
	"time"
)

// MinClipBasePixels floors inserted clip lengths so zero and near-zero
// length media still produce an interactable clip on screen.
const MinClipBasePixels = 10.0

// MediaRange restricts an insert to a sub-range of the source media, in
// source-media seconds. Semantic search hits arrive this way.
type MediaRange struct {
	StartSeconds float64
	EndSeconds   float64
}

// Engine composes the store, history, clipboard, zoom, resolver and
// playhead into the operations a caller invokes. It is the sole mutation
// entry point: every mutation records a history snapshot first, commits to
// the store, then notifies subscribers.
//
// The engine assumes a single logical owner; callers serialize access.
type Engine struct {
	store     *Store
	history   *History
	clipboard *Clipboard
	zoom      *Zoom
	playhead  *Playhead
	resolver  *Resolver
	tracks    []Track
	trackByID map[string]Track
	emitter   emitter
	logger    *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	tracks := DefaultTracks()
	e := &Engine{
		store:     NewStore(),
		clipboard: NewClipboard(),
		zoom:      NewZoom(),
		playhead:  NewPlayhead(),
		resolver:  NewResolver(tracks),
		tracks:    tracks,
		trackByID: make(map[string]Track, len(tracks)),
		logger:    logger,
	}
	for _, t := range tracks {
		e.trackByID[t.ID] = t
	}
	e.history = NewHistory(nil)
	return e
}

// Subscribe registers an observer notified after each committed mutation.
func (e *Engine) Subscribe(fn func(Event)) {
	e.emitter.subscribe(fn)
}

func (e *Engine) Tracks() []Track {
	out := make([]Track, len(e.tracks))
	copy(out, e.tracks)
	return out
}

// Clips returns the clip collection ordered by start position.
func (e *Engine) Clips() []Clip {
	return e.store.ListSorted(nil)
}

func (e *Engine) ClipsByTrack(trackID string) []Clip {
	return e.store.ListByTrack(trackID)
}

func (e *Engine) FindClip(id string) (Clip, bool) {
	return e.store.FindByID(id)
}

// EndBase returns the rightmost clip end in base pixels, 0 when empty.
func (e *Engine) EndBase() float64 {
	end := 0.0
	for _, c := range e.store.Snapshot() {
		if c.End() > end {
			end = c.End()
		}
	}
	return end
}

// EndTime returns the timeline end in seconds.
func (e *Engine) EndTime() float64 {
	return BaseToSeconds(e.EndBase())
}

func (e *Engine) record() {
	e.history.Record(e.store.Snapshot())
}

func (e *Engine) commit(ev Event) {
	e.history.Commit(e.store.Snapshot())
	e.emitter.emit(ev)
}

// InsertFromAsset places a clip for an asset on a track: at base 0 when the
// track is empty, otherwise immediately after the rightmost clip already on
// it. rng, when non-nil, selects a sub-range of the source media. The
// insert is rejected when the track is unknown or its type does not match
// the asset's.
func (e *Engine) InsertFromAsset(assetID string, assetType TrackType, assetDurationSeconds float64, trackID string, rng *MediaRange) (Clip, bool) {
	track, ok := e.trackByID[trackID]
	if !ok || track.Type != assetType {
		return Clip{}, false
	}

	durationSeconds := assetDurationSeconds
	mediaOffsetSeconds := 0.0
	if rng != nil {
		durationSeconds = rng.EndSeconds - rng.StartSeconds
		mediaOffsetSeconds = rng.StartSeconds
	}
	duration := SecondsToBase(durationSeconds)
	if duration < MinClipBasePixels {
		duration = MinClipBasePixels
	}
	mediaOffset := SecondsToBase(mediaOffsetSeconds)
	if mediaOffset < 0 {
		mediaOffset = 0
	}

	start := 0.0
	for _, c := range e.store.ListByTrack(trackID) {
		if c.End() > start {
			start = c.End()
		}
	}

	clip := Clip{
		ID:          NewID(),
		TrackID:     trackID,
		AssetID:     assetID,
		Type:        assetType,
		StartTime:   start,
		Duration:    duration,
		MediaOffset: mediaOffset,
		Transform:   DefaultTransform(),
	}

	e.record()
	e.store.Insert(clip)
	e.commit(Event{Kind: EventClipAdded, ClipID: clip.ID})

	if e.logger != nil {
		e.logger.Info("clip inserted", "clip_id", clip.ID, "track_id", trackID, "start", clip.StartTime, "duration", clip.Duration)
	}
	return clip.Clone(), true
}

// MoveClip repositions a clip, optionally onto another track of the same
// type. Unknown ids, unknown tracks and type mismatches are no-ops. The
// start position clamps at 0.
func (e *Engine) MoveClip(id, trackID string, startSeconds float64) bool {
	clip, ok := e.store.FindByID(id)
	if !ok {
		return false
	}
	if trackID == "" {
		trackID = clip.TrackID
	}
	track, ok := e.trackByID[trackID]
	if !ok || track.Type != clip.Type {
		return false
	}

	start := SecondsToBase(startSeconds)
	if start < 0 {
		start = 0
	}

	e.record()
	e.store.Update(id, func(c *Clip) {
		c.TrackID = trackID
		c.StartTime = start
	})
	e.commit(Event{Kind: EventClipUpdated, ClipID: id})
	return true
}

// TrimClip changes a clip's on-timeline length. The duration floors at the
// minimum interactable length; unknown ids are no-ops.
func (e *Engine) TrimClip(id string, durationSeconds float64) bool {
	if _, ok := e.store.FindByID(id); !ok {
		return false
	}
	duration := SecondsToBase(durationSeconds)
	if duration < MinClipBasePixels {
		duration = MinClipBasePixels
	}

	e.record()
	e.store.Update(id, func(c *Clip) {
		c.Duration = duration
	})
	e.commit(Event{Kind: EventClipUpdated, ClipID: id})
	return true
}

// SetTransform replaces a clip's transform record.
func (e *Engine) SetTransform(id string, tr Transform) bool {
	if _, ok := e.store.FindByID(id); !ok {
		return false
	}
	e.record()
	e.store.Update(id, func(c *Clip) {
		c.Transform = tr
	})
	e.commit(Event{Kind: EventClipUpdated, ClipID: id})
	return true
}

// SetEffects replaces a clip's effects record.
func (e *Engine) SetEffects(id string, fx Effects) bool {
	if _, ok := e.store.FindByID(id); !ok {
		return false
	}
	e.record()
	e.store.Update(id, func(c *Clip) {
		c.Effects = fx
		if fx.ChromaKey != nil {
			ck := *fx.ChromaKey
			c.Effects.ChromaKey = &ck
		}
	})
	e.commit(Event{Kind: EventClipUpdated, ClipID: id})
	return true
}

// SplitClip cuts a clip in two at splitSeconds. The split point must fall
// strictly inside the clip; boundary and outside points are no-ops. The
// left half keeps the original id; the right half gets a fresh id, a
// value-copy of transform and effects, and a media offset advanced so the
// two halves play back exactly like the original.
func (e *Engine) SplitClip(id string, splitSeconds float64) (Clip, bool) {
	clip, ok := e.store.FindByID(id)
	if !ok {
		return Clip{}, false
	}

	splitPoint := SecondsToBase(splitSeconds)
	if splitPoint <= clip.StartTime || splitPoint >= clip.End() {
		return Clip{}, false
	}

	right := clip.Clone()
	right.ID = NewID()
	right.StartTime = splitPoint
	right.Duration = clip.End() - splitPoint
	right.MediaOffset = clip.MediaOffset + (splitPoint - clip.StartTime)

	e.record()
	e.store.Update(id, func(c *Clip) {
		c.Duration = splitPoint - c.StartTime
	})
	e.store.Insert(right)
	e.commit(Event{Kind: EventClipSplit, ClipID: id})

	if e.logger != nil {
		e.logger.Info("clip split", "clip_id", id, "new_clip_id", right.ID, "split_base", splitPoint)
	}
	return right.Clone(), true
}

// DeleteClip removes a clip. Unknown ids are no-ops.
func (e *Engine) DeleteClip(id string) bool {
	if _, ok := e.store.FindByID(id); !ok {
		return false
	}
	e.record()
	e.store.Remove(id)
	e.commit(Event{Kind: EventClipRemoved, ClipID: id})
	return true
}

// RemoveClipsByAsset cascade-deletes every clip placed from an asset. It is
// a no-op when the asset has no clips.
func (e *Engine) RemoveClipsByAsset(assetID string) int {
	removed := 0
	for _, c := range e.store.Snapshot() {
		if c.AssetID == assetID {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	e.record()
	e.store.RemoveByAsset(assetID)
	e.commit(Event{Kind: EventClipRemoved})
	return removed
}

// CopyClip places a deep clone of the clip on the clipboard.
func (e *Engine) CopyClip(id string) bool {
	clip, ok := e.store.FindByID(id)
	if !ok {
		return false
	}
	e.clipboard.Copy(clip)
	return true
}

// PasteAt inserts a re-identified copy of the clipboard clip starting at
// atSeconds. An empty clipboard is a no-op.
func (e *Engine) PasteAt(atSeconds float64) (Clip, bool) {
	clip, ok := e.clipboard.Get()
	if !ok {
		return Clip{}, false
	}

	clip.ID = NewID()
	clip.StartTime = SecondsToBase(atSeconds)
	if clip.StartTime < 0 {
		clip.StartTime = 0
	}

	e.record()
	e.store.Insert(clip)
	e.commit(Event{Kind: EventClipAdded, ClipID: clip.ID})

	if e.logger != nil {
		e.logger.Info("clip pasted", "clip_id", clip.ID, "start", clip.StartTime)
	}
	return clip.Clone(), true
}

// Undo installs the previous history snapshot. At the boundary it is a
// no-op returning false.
func (e *Engine) Undo() bool {
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.store.Restore(snap)
	e.emitter.emit(Event{Kind: EventRestored})
	return true
}

// Redo installs the next history snapshot. At the boundary it is a no-op
// returning false.
func (e *Engine) Redo() bool {
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.store.Restore(snap)
	e.emitter.emit(Event{Kind: EventRestored})
	return true
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// ResolveAt returns the active/background clip pair at playheadSeconds.
func (e *Engine) ResolveAt(playheadSeconds float64) Resolution {
	return e.resolver.ResolveAt(playheadSeconds, e.store.Snapshot())
}

func (e *Engine) ZoomPercent() int { return e.zoom.Percent() }
func (e *Engine) ZoomIn() int      { return e.zoom.In() }
func (e *Engine) ZoomOut() int     { return e.zoom.Out() }
func (e *Engine) SetZoom(p int) int {
	return e.zoom.Set(p)
}

// ZoomToFit solves for the zoom level at which the whole timeline fits the
// fit viewport.
func (e *Engine) ZoomToFit() int {
	return e.zoom.FitToContent(e.EndTime())
}

func (e *Engine) Playhead() *Playhead {
	return e.playhead
}

// TickPlayhead advances playback against the current timeline end.
func (e *Engine) TickPlayhead(now time.Time) bool {
	return e.playhead.Tick(now, e.EndTime())
}

// SeekPlayhead moves the playhead, clamped to the timeline unless a scrub
// is in progress.
func (e *Engine) SeekPlayhead(seconds float64) {
	e.playhead.Seek(seconds, e.EndTime())
}

// EndScrub resumes the end-of-timeline clamp after a manual drag.
func (e *Engine) EndScrub() {
	e.playhead.EndScrub(e.EndTime())
}

// Dirty reports whether the collection changed since the last save.
func (e *Engine) Dirty() bool {
	return e.store.Dirty()
}

// MarkClean resets the dirty flag after a successful save.
func (e *Engine) MarkClean() {
	e.store.ClearDirty()
}

// Snapshot returns a deep copy of the clip collection for persistence.
func (e *Engine) Snapshot() []Clip {
	return e.store.Snapshot()
}

// Restore replaces the clip collection with a loaded snapshot and resets
// history to that baseline. Loading is not an undoable action.
func (e *Engine) Restore(clips []Clip) {
	e.store.Restore(clips)
	e.store.ClearDirty()
	e.history = NewHistory(e.store.Snapshot())
	e.emitter.emit(Event{Kind: EventRestored})
}
