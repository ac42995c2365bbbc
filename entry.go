package difflog

import "reflect"

// Action classifies a recorded change. The three values below are the only
// actions the diff engine ever produces; Add rejects anything else.
type Action string

const (
	ActionAdded   Action = "added"
	ActionEdited  Action = "edited"
	ActionRemoved Action = "removed"
)

// Actions returns the closed set of valid actions in their canonical order.
func Actions() []Action {
	return []Action{ActionAdded, ActionEdited, ActionRemoved}
}

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionAdded, ActionEdited, ActionRemoved:
		return true
	}
	return false
}

// String returns the canonical lowercase form used in serialized output.
func (a Action) String() string {
	return string(a)
}

// Entry is a single recorded change. OldValue is nil for additions and
// NewValue is nil for removals; edits carry both sides.
type Entry struct {
	Action   Action
	KeyPath  string
	OldValue any
	NewValue any
}

// Equal reports structural equality: same action, same key path, and deeply
// equal value sides.
func (e Entry) Equal(other Entry) bool {
	return e.Action == other.Action &&
		e.KeyPath == other.KeyPath &&
		reflect.DeepEqual(e.OldValue, other.OldValue) &&
		reflect.DeepEqual(e.NewValue, other.NewValue)
}
