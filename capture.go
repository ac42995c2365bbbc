package difflog

import "github.com/mickamy/difflog/internal/structure"

// Capture begins a scoped capture over target: a deep snapshot is taken
// immediately and the returned context diffs it against the live target when
// Done is called. Every key path produced by the diff starts at prefix.
//
// The caller keeps mutating the original target; the snapshot is never
// exposed. Done is meant to be deferred so the diff also runs while a panic
// is propagating:
//
//	cp := log.Capture(data, "")
//	defer cp.Done()
//	data["name"] = "Jane"
func (c *ChangeLog) Capture(target any, prefix string) *Capture {
	if c.logger != nil {
		c.logger.Debug("difflog: capture begin", "prefix", prefix)
	}
	return &Capture{
		log:      c,
		target:   target,
		prefix:   prefix,
		snapshot: structure.Snapshot(target),
	}
}

// Capture is one scoped mutation episode: snapshot at creation, diff at Done.
// Multiple captures may run sequentially against the same log and target;
// each appends its own entries.
type Capture struct {
	log      *ChangeLog
	target   any
	prefix   string
	snapshot any
	finished bool
}

// Target returns the original value under capture, never the snapshot.
func (cp *Capture) Target() any {
	return cp.target
}

// Done diffs the snapshot against the target's current state and appends the
// resulting entries to the bound log in traversal order. It is idempotent;
// calls after the first are no-ops. Done never recovers: an in-flight panic
// continues unchanged after the diff has been recorded.
func (cp *Capture) Done() {
	if cp.finished {
		return
	}
	cp.finished = true
	before := cp.log.Len()
	newDiffer(cp.log).compare(cp.snapshot, cp.target, cp.prefix)
	cp.snapshot = nil
	if cp.log.logger != nil {
		cp.log.logger.Debug("difflog: capture done",
			"prefix", cp.prefix,
			"entries", cp.log.Len()-before,
		)
	}
}
