package timeline

import (
	"slices"
	"sort"
)

// Store owns the ordered clip collection. It is not safe for concurrent
// use; the engine is the single owner and all mutations happen inside one
// event-handler invocation.
//
// Every mutating call marks the store dirty for the autosave runner. The
// flag is informational; it is never part of the store's own contract.
type Store struct {
	clips []Clip
	dirty bool
}

func NewStore() *Store {
	return &Store{}
}

// Insert appends a clip to the collection. Array position doubles as the
// visual stacking order for overlapping clips on the same track.
func (s *Store) Insert(c Clip) {
	s.clips = append(s.clips, c)
	s.dirty = true
}

// Update applies fn to the clip with the given id. Unknown ids are a
// silent no-op.
func (s *Store) Update(id string, fn func(*Clip)) {
	for i := range s.clips {
		if s.clips[i].ID == id {
			fn(&s.clips[i])
			s.dirty = true
			return
		}
	}
}

// Remove deletes the clip with the given id. Unknown ids are a silent
// no-op.
func (s *Store) Remove(id string) {
	for i := range s.clips {
		if s.clips[i].ID == id {
			s.clips = slices.Delete(s.clips, i, i+1)
			s.dirty = true
			return
		}
	}
}

// RemoveByAsset cascade-deletes every clip placed from the given asset.
func (s *Store) RemoveByAsset(assetID string) {
	kept := s.clips[:0]
	removed := false
	for _, c := range s.clips {
		if c.AssetID == assetID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.clips = kept
	if removed {
		s.dirty = true
	}
}

// FindByID returns a copy of the clip, or false if absent.
func (s *Store) FindByID(id string) (Clip, bool) {
	for _, c := range s.clips {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return Clip{}, false
}

// ListByTrack returns copies of the clips on a track in array order.
func (s *Store) ListByTrack(trackID string) []Clip {
	var out []Clip
	for _, c := range s.clips {
		if c.TrackID == trackID {
			out = append(out, c.Clone())
		}
	}
	return out
}

// ListSorted returns copies of the clips matching pred, ordered by start
// position. A nil pred matches everything.
func (s *Store) ListSorted(pred func(Clip) bool) []Clip {
	var out []Clip
	for _, c := range s.clips {
		if pred == nil || pred(c) {
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Len returns the number of clips in the collection.
func (s *Store) Len() int {
	return len(s.clips)
}

// Snapshot returns a deep copy of the whole collection in array order.
func (s *Store) Snapshot() []Clip {
	out := make([]Clip, len(s.clips))
	for i, c := range s.clips {
		out[i] = c.Clone()
	}
	return out
}

// Restore replaces the collection with a deep copy of the snapshot.
func (s *Store) Restore(snapshot []Clip) {
	s.clips = make([]Clip, len(snapshot))
	for i, c := range snapshot {
		s.clips[i] = c.Clone()
	}
	s.dirty = true
}

// Dirty reports whether a mutation has happened since the last ClearDirty.
func (s *Store) Dirty() bool {
	return s.dirty
}

// ClearDirty resets the flag after a successful save.
func (s *Store) ClearDirty() {
	s.dirty = false
}
