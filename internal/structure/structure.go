// Package structure classifies arbitrary values into the closed set of
// structural kinds the diff engine understands and provides uniform access
// to their contents, plus a cycle-safe deep snapshot.
package structure

import (
	"fmt"
	"reflect"
)

// Kind is the structural classification of a value.
type Kind int

const (
	// Scalar covers everything the diff compares by plain equality:
	// strings, numbers, booleans, nil, nil pointers, channels, funcs.
	Scalar Kind = iota
	// Mapping is any map.
	Mapping
	// Sequence is any slice or array.
	Sequence
	// Record is a struct or a non-nil pointer to one; its exported fields
	// play the role of a mapping's key/value pairs.
	Record
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case Record:
		return "record"
	}
	return "scalar"
}

// Classify determines the structural kind of v. Non-nil pointers classify as
// their pointee, so *T and T diff identically.
func Classify(v any) Kind {
	return classify(reflect.ValueOf(v))
}

// maxIndirections caps how many pointer/interface hops classification and
// field access will follow. A degenerate self-referential pointer chain
// (type p *p with v = &v) would otherwise never bottom out; past the cap the
// value is treated as an opaque scalar, which DeepEqual compares safely.
const maxIndirections = 64

func classify(rv reflect.Value) Kind {
	for hops := 0; hops <= maxIndirections; hops++ {
		switch rv.Kind() {
		case reflect.Map:
			return Mapping
		case reflect.Slice, reflect.Array:
			return Sequence
		case reflect.Struct:
			return Record
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return Scalar
			}
			rv = rv.Elem()
		default:
			return Scalar
		}
	}
	return Scalar
}

// Fields returns the keyed contents of a mapping or record: map entries with
// their keys rendered as strings, or the exported fields of a struct. Other
// kinds yield an empty table.
//
// Key paths are a string-keyed domain: distinct map keys whose renderings
// collide (1 and "1" in a map[any]any) share a single table slot, with the
// last one iterated winning. Callers wanting every key observed must keep
// renderings unique.
func Fields(v any) map[string]any {
	rv := indirect(reflect.ValueOf(v))
	out := map[string]any{}
	switch rv.Kind() {
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			out[keyString(iter.Key())] = iter.Value().Interface()
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			out[f.Name] = rv.Field(i).Interface()
		}
	}
	return out
}

// Elems materializes the elements of a slice or array in positional order.
func Elems(v any) []any {
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Identity returns an address token for containers that can participate in
// reference cycles: maps, pointers, and non-empty slices. Value kinds (and
// empty slices, which cannot contain anything) have no identity.
func Identity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

// Snapshot produces a deep copy of v suitable as the "before" side of a
// later diff. Maps, slices, arrays, pointers and exported struct fields are
// copied recursively; unexported struct fields are carried over shallowly.
// Containers already copied on the current walk are reused by identity, so
// shared references and self-referential cycles keep their topology instead
// of recursing forever.
func Snapshot(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	c := &cloner{seen: map[uintptr]reflect.Value{}}
	return c.clone(rv).Interface()
}

type cloner struct {
	seen map[uintptr]reflect.Value
}

func (c *cloner) clone(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		return c.clone(rv.Elem())
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		if cp, ok := c.seen[rv.Pointer()]; ok {
			return cp
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		c.seen[rv.Pointer()] = cp
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), c.clone(iter.Value()))
		}
		return cp
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		if rv.Len() > 0 {
			if cp, ok := c.seen[rv.Pointer()]; ok {
				return cp
			}
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		if rv.Len() > 0 {
			// registered before filling so self-references resolve to cp
			c.seen[rv.Pointer()] = cp
		}
		for i := 0; i < rv.Len(); i++ {
			cp.Index(i).Set(c.clone(rv.Index(i)))
		}
		return cp
	case reflect.Pointer:
		if rv.IsNil() {
			return rv
		}
		if cp, ok := c.seen[rv.Pointer()]; ok {
			return cp
		}
		cp := reflect.New(rv.Type().Elem())
		c.seen[rv.Pointer()] = cp
		cp.Elem().Set(c.clone(rv.Elem()))
		return cp
	case reflect.Struct:
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			cp.Field(i).Set(c.clone(rv.Field(i)))
		}
		return cp
	case reflect.Array:
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		for i := 0; i < rv.Len(); i++ {
			cp.Index(i).Set(c.clone(rv.Index(i)))
		}
		return cp
	default:
		return rv
	}
}

func indirect(rv reflect.Value) reflect.Value {
	for hops := 0; hops <= maxIndirections; hops++ {
		if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
			rv = rv.Elem()
			continue
		}
		return rv
	}
	return rv
}

func keyString(rv reflect.Value) string {
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		return keyString(rv.Elem())
	}
	return fmt.Sprint(rv.Interface())
}
