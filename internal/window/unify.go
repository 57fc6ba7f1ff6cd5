package window

import "sort"

// groupKey identifies one window: same date, same original time label, same
// terminal. Records from different terminals are never merged.
type groupKey struct {
	date     int64
	label    string
	terminal Terminal
}

// Unify concatenates normalized tables from both terminals into the unified
// table: duplicate (date, time range, terminal) keys are merged by summing
// the category counts, which collapses the Rio Brasil row-per-category shape
// into one record per window. The result is sorted for display by date and
// numeric start hour; unparsable labels sort last via the sentinel hour.
// Unifying an already unified table is a no-op on the totals.
func Unify(tables ...[]Record) []Record {
	merged := make(map[groupKey]Record)
	order := make([]groupKey, 0)
	for _, table := range tables {
		for _, rec := range table {
			key := groupKey{date: rec.Date.Unix(), label: rec.Range.Label, terminal: rec.Terminal}
			if existing, ok := merged[key]; ok {
				existing.Availability = existing.Availability.Add(rec.Availability)
				merged[key] = existing
				continue
			}
			merged[key] = rec
			order = append(order, key)
		}
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		// Numeric start-hour order: a lexicographic sort on the label would
		// put "9:00" after "10:00".
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.Label != b.Range.Label {
			return a.Range.Label < b.Range.Label
		}
		return a.Terminal < b.Terminal
	})
	return out
}
