package timeline

// HistoryLimit caps the undo stack. When exceeded the oldest snapshot is
// dropped and the cursor shifts down so existing indices stay valid.
const HistoryLimit = 50

// History keeps deep-copy snapshots of the clip collection with a cursor.
// Undo and redo at the boundaries are no-ops, never errors.
type History struct {
	snapshots [][]Clip
	cursor    int
}

func NewHistory(initial []Clip) *History {
	return &History{snapshots: [][]Clip{cloneClips(initial)}, cursor: 0}
}

// Record pushes a snapshot of the current state before a mutation. Any
// snapshots past the cursor are discarded: a new action invalidates
// previously undone futures.
func (h *History) Record(current []Clip) {
	h.snapshots = h.snapshots[:h.cursor+1]
	h.snapshots = append(h.snapshots, cloneClips(current))
	h.cursor++

	if len(h.snapshots) > HistoryLimit {
		h.snapshots = h.snapshots[1:]
		h.cursor--
	}
}

// Commit replaces the snapshot at the cursor with the post-mutation state.
// Record captured the pre-mutation state one slot back, so after Commit the
// cursor always points at the live state.
func (h *History) Commit(current []Clip) {
	h.snapshots[h.cursor] = cloneClips(current)
}

// Undo moves the cursor back one and returns that snapshot. The second
// return is false when there is nothing to undo.
func (h *History) Undo() ([]Clip, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return cloneClips(h.snapshots[h.cursor]), true
}

// Redo moves the cursor forward one and returns that snapshot. The second
// return is false when there is nothing to redo.
func (h *History) Redo() ([]Clip, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return cloneClips(h.snapshots[h.cursor]), true
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of snapshots held.
func (h *History) Len() int {
	return len(h.snapshots)
}

func cloneClips(clips []Clip) []Clip {
	out := make([]Clip, len(clips))
	for i, c := range clips {
		out[i] = c.Clone()
	}
	return out
}
