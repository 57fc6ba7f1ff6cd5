package window

import (
	"strconv"
	"strings"
)

// SentinelHour orders records whose time label could not be parsed after
// every real hour of the day.
const SentinelHour = 24

// HourRange is the structured form of a "HH:MM - HH:MM" label. End is not
// guaranteed to be greater than Start; windows wrapping past midnight are
// not special-cased and classify with the same naive comparisons as any
// other (known upstream limitation, kept on purpose).
type HourRange struct {
	Start  int    `json:"startHour"`
	End    int    `json:"endHour"`
	Label  string `json:"label"`
	Parsed bool   `json:"parsed"`
}

// ParseRange extracts the start and end hour from a "HH:MM - HH:MM" label.
// It splits on the literal " - " separator and parses the digits before the
// colon on each side. Malformed input reports ok=false; it never panics and
// does not range-check the hours.
func ParseRange(label string) (start, end int, ok bool) {
	lhs, rhs, found := strings.Cut(label, " - ")
	if !found {
		return 0, 0, false
	}
	start, ok = leadingHour(lhs)
	if !ok {
		return 0, 0, false
	}
	end, ok = leadingHour(rhs)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func leadingHour(s string) (int, bool) {
	hour, _, _ := strings.Cut(s, ":")
	n, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RangeOf builds the HourRange for a label. Unparsable labels keep the
// original text and fall back to the sentinel hour so the record is retained
// but sorts last.
func RangeOf(label string) HourRange {
	start, end, ok := ParseRange(label)
	if !ok {
		return HourRange{Start: SentinelHour, End: SentinelHour, Label: label}
	}
	return HourRange{Start: start, End: end, Label: label, Parsed: true}
}
