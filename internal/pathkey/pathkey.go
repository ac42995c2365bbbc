// Package pathkey builds the dotted/bracket key paths that address values
// inside a tracked structure (e.g. "user.addresses.[0].city").
package pathkey

import (
	"strconv"
	"strings"
)

// Separator joins a parent path and a child key.
const Separator = "."

// Join extends parent with a mapping key or record field name.
// An empty parent yields the key itself. A parent that already ends with the
// separator (a caller-supplied prefix such as "user.") contributes its own
// separator and none is added.
func Join(parent, key string) string {
	if parent == "" {
		return key
	}
	if strings.HasSuffix(parent, Separator) {
		return parent + key
	}
	return parent + Separator + key
}

// Index extends parent with a sequence position, rendered in bracket
// notation: "items" at index 2 becomes "items.[2]".
func Index(parent string, i int) string {
	elem := "[" + strconv.Itoa(i) + "]"
	if strings.HasSuffix(parent, Separator) {
		return parent + elem
	}
	return parent + Separator + elem
}
