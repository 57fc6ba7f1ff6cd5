package window

import "time"

// Terminal identifies one of the two port facilities feeding the dashboard.
type Terminal string

const (
	TerminalMultirio  Terminal = "MULTIRIO"
	TerminalRioBrasil Terminal = "RIO_BRASIL"
)

// Terminals lists both facilities in display order.
var Terminals = []Terminal{TerminalMultirio, TerminalRioBrasil}

// DisplayName returns the human-readable terminal name used by the dashboard.
func (t Terminal) DisplayName() string {
	switch t {
	case TerminalMultirio:
		return "Multirio"
	case TerminalRioBrasil:
		return "Rio Brasil Terminal"
	}
	return string(t)
}

// Category is one of the five cargo-movement codes.
type Category string

const (
	CategoryECH Category = "ECH" // entrega cheio
	CategoryEVZ Category = "EVZ" // entrega vazio
	CategoryRCH Category = "RCH" // retirada cheio
	CategoryRVZ Category = "RVZ" // retirada vazio
	CategoryRCS Category = "RCS" // retirada carga solta
)

// Legend is the fixed category reference table rendered verbatim by the
// presentation layer.
var Legend = map[Category]string{
	CategoryECH: "entrega cheio",
	CategoryEVZ: "entrega vazio",
	CategoryRCH: "retirada cheio",
	CategoryRVZ: "retirada vazio",
	CategoryRCS: "retirada carga solta",
}

// Availability holds the per-category slot counts of one window. A fixed
// struct instead of a dynamically keyed map: renames can never collide, so
// there is no duplicate-column merging step anywhere in the pipeline.
// Counts may be negative (disponível - reservada is not clamped).
type Availability struct {
	ECH int `json:"ech"`
	EVZ int `json:"evz"`
	RCH int `json:"rch"`
	RVZ int `json:"rvz"`
	RCS int `json:"rcs"`
}

// Add returns the category-wise sum of two availability sets.
func (a Availability) Add(b Availability) Availability {
	return Availability{
		ECH: a.ECH + b.ECH,
		EVZ: a.EVZ + b.EVZ,
		RCH: a.RCH + b.RCH,
		RVZ: a.RVZ + b.RVZ,
		RCS: a.RCS + b.RCS,
	}
}

// IsZero reports whether every category count is zero. All-zero windows are
// suppressed from the display buckets but stay in the unified table.
func (a Availability) IsZero() bool {
	return a == Availability{}
}

// Set assigns a count to the category identified by code.
func (a *Availability) Set(c Category, n int) {
	switch c {
	case CategoryECH:
		a.ECH = n
	case CategoryEVZ:
		a.EVZ = n
	case CategoryRCH:
		a.RCH = n
	case CategoryRVZ:
		a.RVZ = n
	case CategoryRCS:
		a.RCS = n
	}
}

// Record is the canonical unit after normalization: one availability window
// of one terminal on one date.
type Record struct {
	Terminal     Terminal     `json:"terminal"`
	Date         time.Time    `json:"date"`
	Range        HourRange    `json:"range"`
	Availability Availability `json:"availability"`
}

// DateOf truncates an instant to its naive calendar date. Dates carry no
// clock or zone; midnight UTC is the canonical representation.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
