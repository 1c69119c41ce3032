// Package options encodes and parses the ids carried by interactive replies,
// such as "category_5" or "hour_780".
package options

import (
	"errors"
	"strconv"
	"strings"
)

// Fixed option ids.
const (
	Schedule     = "schedule"
	Instagram    = "instagram"
	Confirm      = "confirm"
	Cancel       = "cancel"
	ScheduleLink = "schedule_link"
)

// Prefixes of numeric option ids.
const (
	Category     = "category"
	Service      = "service"
	Hour         = "hour"
	Professional = "professional"
)

const sep = "_"

// ErrMalformed reports an id that does not match prefix_<digits>.
var ErrMalformed = errors.New("options: malformed id")

// ID renders prefix_<n>.
func ID(prefix string, n int) string {
	return prefix + sep + strconv.Itoa(n)
}

// Parse extracts the non-negative integer from an id of the form prefix_<digits>.
// Anything else, including signs, spaces or trailing text, is ErrMalformed.
func Parse(id, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(id, prefix+sep)
	if !ok || rest == "" {
		return 0, ErrMalformed
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, ErrMalformed
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, ErrMalformed
	}
	return n, nil
}

// HasPrefix reports whether id belongs to the prefix family, well-formed or not.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+sep)
}

// Kind returns the family of id: the text before the first separator, or the
// whole id when it has none.
func Kind(id string) string {
	kind, _, _ := strings.Cut(id, sep)
	return kind
}
