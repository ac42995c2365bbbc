package difflog

// Track runs fn inside a capture over target on a fresh ChangeLog and
// returns the log together with fn's error, unchanged. Entries for
// mutations made before an error (or panic) are still recorded.
func Track(target any, fn func() error) (*ChangeLog, error) {
	return TrackWithPrefix(target, "", fn)
}

// TrackWithPrefix is Track with a key-path prefix applied to every entry.
func TrackWithPrefix(target any, prefix string, fn func() error) (*ChangeLog, error) {
	log := New()
	err := log.track(target, prefix, fn)
	return log, err
}

func (c *ChangeLog) track(target any, prefix string, fn func() error) error {
	cp := c.Capture(target, prefix)
	defer cp.Done()
	return fn()
}

// Tracker owns a ChangeLog and accumulates changes across multiple tracked
// scopes and manual appends.
type Tracker struct {
	log *ChangeLog
}

// NewTracker creates a Tracker with an empty log.
func NewTracker(opts ...Option) *Tracker {
	return &Tracker{log: New(opts...)}
}

// Track runs fn inside a capture over target, appending into the owned log.
func (t *Tracker) Track(target any, fn func() error) error {
	return t.log.track(target, "", fn)
}

// TrackWithPrefix is Track with a key-path prefix.
func (t *Tracker) TrackWithPrefix(target any, prefix string, fn func() error) error {
	return t.log.track(target, prefix, fn)
}

// Add appends a manual entry; see ChangeLog.Add.
func (t *Tracker) Add(action Action, keyPath string, oldValue, newValue any) error {
	return t.log.Add(action, keyPath, oldValue, newValue)
}

// Entries returns the accumulated entries in export format.
func (t *Tracker) Entries() []map[string]any {
	return t.log.Export()
}

// Len returns the number of accumulated entries.
func (t *Tracker) Len() int {
	return t.log.Len()
}

// ToJSON serializes the accumulated entries; see ChangeLog.Serialize.
func (t *Tracker) ToJSON(indent string) (string, error) {
	return t.log.Serialize(indent)
}

// Reset clears the owned log.
func (t *Tracker) Reset() {
	t.log.Reset()
}

// ChangeLog exposes the owned log for direct use.
func (t *Tracker) ChangeLog() *ChangeLog {
	return t.log
}
