package window

import (
	"sort"
	"time"
)

// State classifies a window against the current hour of the day.
type State int

const (
	StateNotStarted State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// StateAt classifies the record for the given current hour. The start hour
// is inclusive and the end hour exclusive: hour == start is already active,
// hour == end has ended. Records with unparsable ranges count as ended.
func (r Record) StateAt(hour int) State {
	if !r.Range.Parsed {
		return StateEnded
	}
	switch {
	case hour < r.Range.Start:
		return StateNotStarted
	case hour < r.Range.End:
		return StateActive
	}
	return StateEnded
}

// orderKey ranks today's windows for display. Windows already in progress
// rank at the current hour, so they come before every upcoming window;
// upcoming windows rank by start hour; ended windows rank last.
//
// This is the NOT_STARTED/ACTIVE rule. The simpler start-hour threshold
// rule drops an in-progress window as soon as its start hour passes, which
// hides a window a truck could still use; see DESIGN.md.
func orderKey(r Record, hour int) int {
	switch r.StateAt(hour) {
	case StateActive:
		return hour
	case StateNotStarted:
		return r.Range.Start
	}
	return SentinelHour
}

// Clock is the render instant: today's date and the current hour. It is
// threaded explicitly through the filter so the logic never reads the wall
// clock itself.
type Clock struct {
	Today time.Time
	Hour  int
}

// ClockAt derives the render clock from an instant, in that instant's zone.
func ClockAt(t time.Time) Clock {
	return Clock{Today: DateOf(t), Hour: t.Hour()}
}

// Next picks the single next window of a terminal for today: the minimum by
// ordering key among today's records that have not ended. Returns nil when
// nothing qualifies for the rest of the day.
func Next(table []Record, clk Clock, terminal Terminal) *Record {
	var best *Record
	bestKey := 0
	for i := range table {
		rec := table[i]
		if rec.Terminal != terminal || !rec.Date.Equal(clk.Today) {
			continue
		}
		if rec.StateAt(clk.Hour) == StateEnded {
			continue
		}
		key := orderKey(rec, clk.Hour)
		if best == nil || key < bestKey {
			copied := rec
			best, bestKey = &copied, key
		}
	}
	return best
}

// Bucket is one display column of the dashboard: all qualifying windows of
// one calendar day.
type Bucket struct {
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
	Windows []Record  `json:"windows"`
}

var bucketLabels = [3]string{"D", "D+1", "D+2"}

// Buckets selects the D/D+1/D+2 display columns from the unified table.
// Today's bucket drops windows that have already ended; every bucket drops
// windows with zero availability across all five categories (nothing to
// schedule, not worth a row). The raw unified table is left untouched.
func Buckets(table []Record, clk Clock) []Bucket {
	buckets := make([]Bucket, 0, len(bucketLabels))
	for i, label := range bucketLabels {
		date := clk.Today.AddDate(0, 0, i)
		var recs []Record
		for _, rec := range table {
			if !rec.Date.Equal(date) || rec.Availability.IsZero() {
				continue
			}
			if i == 0 && rec.StateAt(clk.Hour) == StateEnded {
				continue
			}
			recs = append(recs, rec)
		}
		if i == 0 {
			sort.SliceStable(recs, func(a, b int) bool {
				return orderKey(recs[a], clk.Hour) < orderKey(recs[b], clk.Hour)
			})
		} else {
			// Future days have no "current hour"; plain start-hour order.
			sort.SliceStable(recs, func(a, b int) bool {
				return recs[a].Range.Start < recs[b].Range.Start
			})
		}
		buckets = append(buckets, Bucket{Label: label, Date: date, Windows: recs})
	}
	return buckets
}
