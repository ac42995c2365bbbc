package difflog

import (
	"reflect"
	"sort"

	"github.com/mickamy/difflog/internal/pathkey"
	"github.com/mickamy/difflog/internal/structure"
)

// differ walks a snapshot and the live structure together and appends one
// entry per detected difference. Container identities on the current
// recursion path are tracked so self-referential structures terminate.
type differ struct {
	log      *ChangeLog
	visiting map[uintptr]struct{}
}

func newDiffer(log *ChangeLog) *differ {
	return &differ{log: log, visiting: map[uintptr]struct{}{}}
}

func (d *differ) compare(snap, live any, path string) {
	snapKind := structure.Classify(snap)
	liveKind := structure.Classify(live)
	if snapKind != liveKind {
		// A container replaced by a scalar (or any other kind switch) is a
		// single edit at this path, never a recursion.
		d.log.append(Entry{Action: ActionEdited, KeyPath: path, OldValue: snap, NewValue: live})
		return
	}
	if snapKind == structure.Scalar {
		if !scalarEqual(snap, live) {
			d.log.append(Entry{Action: ActionEdited, KeyPath: path, OldValue: snap, NewValue: live})
		}
		return
	}
	leave, ok := d.enter(snap, live)
	if !ok {
		// Revisiting an ancestor container: stop here instead of recursing
		// into the cycle.
		return
	}
	defer leave()

	switch snapKind {
	case structure.Mapping, structure.Record:
		d.compareKeyed(snap, live, path)
	case structure.Sequence:
		d.compareSequence(snap, live, path)
	}
}

// scalarEqual is DeepEqual with one carve-out: DeepEqual never equates
// non-nil funcs, not even a func with itself, so an untouched func-valued
// leaf (the snapshot carries the same reference) would show up as a phantom
// edit on every capture. Funcs compare by code pointer instead.
func scalarEqual(a, b any) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() == reflect.Func && bv.Kind() == reflect.Func {
		return av.Pointer() == bv.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

// enter marks the identities of both sides as being compared. It reports
// false when either identity already sits on the current recursion path.
func (d *differ) enter(snap, live any) (func(), bool) {
	var marked []uintptr
	unmark := func() {
		for _, id := range marked {
			delete(d.visiting, id)
		}
	}
	for _, v := range [2]any{snap, live} {
		id, ok := structure.Identity(v)
		if !ok {
			continue
		}
		if _, seen := d.visiting[id]; seen {
			unmark()
			return nil, false
		}
		d.visiting[id] = struct{}{}
		marked = append(marked, id)
	}
	return unmark, true
}

func (d *differ) compareKeyed(snap, live any, path string) {
	snapFields := structure.Fields(snap)
	liveFields := structure.Fields(live)

	keys := make([]string, 0, len(snapFields)+len(liveFields))
	for k := range snapFields {
		keys = append(keys, k)
	}
	for k := range liveFields {
		if _, ok := snapFields[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		child := pathkey.Join(path, k)
		oldValue, hadOld := snapFields[k]
		newValue, hasNew := liveFields[k]
		switch {
		case !hadOld:
			d.log.append(Entry{Action: ActionAdded, KeyPath: child, NewValue: newValue})
		case !hasNew:
			d.log.append(Entry{Action: ActionRemoved, KeyPath: child, OldValue: oldValue})
		default:
			d.compare(oldValue, newValue, child)
		}
	}
}

// compareSequence compares positionally by index. Index identity, not
// content identity, is the unit of comparison: removing a middle element
// shows up as edits at every shifted position plus a trailing removal.
func (d *differ) compareSequence(snap, live any, path string) {
	snapElems := structure.Elems(snap)
	liveElems := structure.Elems(live)

	shared := len(snapElems)
	if len(liveElems) < shared {
		shared = len(liveElems)
	}
	for i := 0; i < shared; i++ {
		d.compare(snapElems[i], liveElems[i], pathkey.Index(path, i))
	}
	for i := shared; i < len(liveElems); i++ {
		d.log.append(Entry{Action: ActionAdded, KeyPath: pathkey.Index(path, i), NewValue: liveElems[i]})
	}
	for i := shared; i < len(snapElems); i++ {
		d.log.append(Entry{Action: ActionRemoved, KeyPath: pathkey.Index(path, i), OldValue: snapElems[i]})
	}
}
