// Package format renders values shown to WhatsApp users.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only date format accepted from users.
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Hour renders minutes since midnight as zero-padded HH:MM.
func Hour(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates a user supplied YYYY-MM-DD date. It deliberately goes
// beyond the bare \d{4}-\d{2}-\d{2} pattern in two ways: surrounding spaces
// are trimmed, and dates that match the pattern but do not exist on the
// calendar, such as 2025-02-30, are rejected before any availability lookup.
func ParseDate(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if !dateRe.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// Price renders a price in reais, e.g. "R$ 45,00". A nil price renders empty.
func Price(v *float64) string {
	if v == nil {
		return ""
	}
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", *v), ".", ",", 1)
}

// Duration renders a service length in minutes, e.g. "30 min".
func Duration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", minutes)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
