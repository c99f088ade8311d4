package timeline

// EventKind identifies what changed in the clip collection.
type EventKind string

const (
	EventClipAdded   EventKind = "clip_added"
	EventClipUpdated EventKind = "clip_updated"
	EventClipRemoved EventKind = "clip_removed"
	EventClipSplit   EventKind = "clip_split"
	EventRestored    EventKind = "restored"
)

// Event is emitted to subscribers after each committed mutation. ClipID is
// empty for whole-collection changes such as undo, redo and cascade
// removal.
type Event struct {
	Kind   EventKind
	ClipID string
}

type subscriber func(Event)

// emitter notifies subscribers synchronously, in subscription order, after
// the mutation has been committed. It replaces the source's implicit
// reactive re-render triggers with an explicit observer mechanism.
type emitter struct {
	subs []subscriber
}

func (e *emitter) subscribe(fn subscriber) {
	e.subs = append(e.subs, fn)
}

func (e *emitter) emit(ev Event) {
	for _, fn := range e.subs {
		fn(ev)
	}
}
