// Package difflog records structural changes to nested values (maps, slices
// and struct-backed records) as an ordered log of key-path addressed entries.
//
// The usual flow is a scoped capture: take a snapshot of a structure, mutate
// it freely, and let the capture diff snapshot against live state on the way
// out. Entries can also be appended by hand via Add.
package difflog

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ChangeLog is an append-only, insertion-ordered log of change entries.
//
// It performs no locking and no deduplication; callers that share a log
// across goroutines must serialize access themselves.
type ChangeLog struct {
	entries []Entry
	logger  *slog.Logger
}

// Option configures a ChangeLog.
type Option func(*ChangeLog)

// WithLogger attaches a logger used for debug-level capture telemetry.
// Without it the log is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ChangeLog) { c.logger = logger }
}

// New creates an empty ChangeLog.
func New(opts ...Option) *ChangeLog {
	c := &ChangeLog{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a manually constructed entry. The action must be one of the
// closed Added/Edited/Removed set; anything else fails with ErrInvalidAction.
// Pass nil for the absent value side (old for additions, new for removals).
func (c *ChangeLog) Add(action Action, keyPath string, oldValue, newValue any) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}
	c.append(Entry{Action: action, KeyPath: keyPath, OldValue: oldValue, NewValue: newValue})
	return nil
}

func (c *ChangeLog) append(e Entry) {
	c.entries = append(c.entries, e)
}

// Entries returns the live backing slice in insertion order. It is not a
// defensive copy; callers must not rely on it surviving a Reset.
func (c *ChangeLog) Entries() []Entry {
	return c.entries
}

// Len returns the number of recorded entries.
func (c *ChangeLog) Len() int {
	return len(c.entries)
}

// Export renders every entry as a plain record with the keys "action",
// "key_path", "old_value" and "new_value", in insertion order. Absent value
// sides are nil. An empty log exports an empty, non-nil slice.
func (c *ChangeLog) Export() []map[string]any {
	out := make([]map[string]any, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, map[string]any{
			"action":    e.Action.String(),
			"key_path":  e.KeyPath,
			"old_value": e.OldValue,
			"new_value": e.NewValue,
		})
	}
	return out
}

// Serialize renders Export as JSON. An empty indent produces compact output;
// otherwise indent is used as the per-level indentation unit.
func (c *ChangeLog) Serialize(indent string) (string, error) {
	var (
		b   []byte
		err error
	)
	if indent == "" {
		b, err = json.Marshal(c.Export())
	} else {
		b, err = json.MarshalIndent(c.Export(), "", indent)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Reset truncates the log to empty in place. It is idempotent.
func (c *ChangeLog) Reset() {
	c.entries = c.entries[:0]
}
