package timeline

// Clipboard holds at most one copied clip. Copying replaces any prior
// entry; the stored clone never aliases live state.
type Clipboard struct {
	entry *Clip
}

func NewClipboard() *Clipboard {
	return &Clipboard{}
}

func (cb *Clipboard) Copy(c Clip) {
	clone := c.Clone()
	cb.entry = &clone
}

// Get returns a deep copy of the held clip, or false when empty.
func (cb *Clipboard) Get() (Clip, bool) {
	if cb.entry == nil {
		return Clip{}, false
	}
	return cb.entry.Clone(), true
}

func (cb *Clipboard) Empty() bool {
	return cb.entry == nil
}
