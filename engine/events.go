package engine

// EventKind identifies a change notification.
type EventKind uint8

const (
	// EventBeforeAppend precedes appending an object to the array.
	EventBeforeAppend EventKind = iota + 1
	// EventAppended follows appending an object.
	EventAppended
	// EventBeforeRemove precedes popping the last object off the array.
	EventBeforeRemove
	// EventRemoved follows popping the last object.
	EventRemoved
	// EventChanged reports changed row content at Index.
	EventChanged
	// EventSelectionChanged reports a selection change at Index.
	EventSelectionChanged
	// EventReset invalidates all object data.
	EventReset
	// EventSelectionReset invalidates all selection state.
	EventSelectionReset
	// EventTouchedReset invalidates the touched-object list.
	EventTouchedReset
	// EventCategoriesChanged reports a change of the category set.
	EventCategoriesChanged
	// EventTodosChanged reports a change of the remaining todo count.
	EventTodosChanged
	// EventHoverChanged reports a new hovered subobject with the indices
	// of the objects overlapping at it.
	EventHoverChanged
	// EventRenderOnlySelectedChanged reports the render filter flag.
	EventRenderOnlySelectedChanged
	// EventBackgroundChanged reports a new background subobject id.
	EventBackgroundChanged
)

var eventNames = [...]string{
	EventBeforeAppend:              "before-append",
	EventAppended:                  "appended",
	EventBeforeRemove:              "before-remove",
	EventRemoved:                   "removed",
	EventChanged:                   "changed",
	EventSelectionChanged:          "selection-changed",
	EventReset:                     "reset",
	EventSelectionReset:            "selection-reset",
	EventTouchedReset:              "touched-reset",
	EventCategoriesChanged:         "categories-changed",
	EventTodosChanged:              "todos-changed",
	EventHoverChanged:              "hover-changed",
	EventRenderOnlySelectedChanged: "render-only-selected-changed",
	EventBackgroundChanged:         "background-changed",
}

// String returns the event name.
func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a change notification.
type Event struct {
	Kind EventKind

	// Index is the object row for EventChanged and EventSelectionChanged.
	Index uint64

	// SubobjectID is set for EventHoverChanged and EventBackgroundChanged.
	SubobjectID uint64

	// Overlap lists object indices containing the hovered subobject.
	Overlap []uint64

	// Flag carries the new value for EventRenderOnlySelectedChanged.
	Flag bool
}

// Observer receives events synchronously.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers an observer and returns a function removing it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers e to all observers unless notifications are muted.
func (s *Store) Emit(e Event) {
	if s.muted > 0 {
		return
	}
	for _, sub := range s.observers {
		sub.fn(e)
	}
}

// Mute suppresses notifications until the returned function is called.
// Calls nest.
func (s *Store) Mute() (restore func()) {
	s.muted++
	return func() {
		s.muted--
	}
}

func (s *Store) emitIndex(kind EventKind, index uint64) {
	s.Emit(Event{Kind: kind, Index: index})
}
