package window

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchemaKind tags the input-schema variant a sheet was recognized as. The
// variant is detected once, up front, from the columns present; everything
// downstream dispatches on the tag instead of probing columns ad hoc.
type SchemaKind int

const (
	SchemaUnknown SchemaKind = iota
	SchemaMultirio
	SchemaRioBrasilCategories
	SchemaRioBrasilWide
)

func (k SchemaKind) String() string {
	switch k {
	case SchemaMultirio:
		return "multirio"
	case SchemaRioBrasilCategories:
		return "riobrasil-categories"
	case SchemaRioBrasilWide:
		return "riobrasil-wide"
	}
	return "unknown"
}

// schemaPredicates maps each variant to the column set that identifies it.
// Detection order matters only for sheets that would match more than one
// set, which does not happen with the real sources.
var schemaPredicates = []struct {
	kind     SchemaKind
	required []string
}{
	{SchemaMultirio, []string{"Data", "JANELAS MULTIRIO"}},
	{SchemaRioBrasilCategories, []string{"DATA", "HORA", "DESCRICAO", "DISPONÍVEL", "RESERVADA"}},
	{SchemaRioBrasilWide, []string{"Dia", "Hora Inicial", "Hora Final", "Qtd Veículos Reservados"}},
}

// DetectSchema returns the variant whose required column set the sheet
// satisfies, or SchemaUnknown.
func DetectSchema(s *Sheet) SchemaKind {
	for _, p := range schemaPredicates {
		if s.HasColumns(p.required...) {
			return p.kind
		}
	}
	return SchemaUnknown
}

// Normalize maps a raw sheet onto canonical window records, picking the
// parsing variant from the columns present. A sheet matching no variant is
// a schema mismatch and fails the whole render.
func Normalize(s *Sheet) ([]Record, error) {
	switch DetectSchema(s) {
	case SchemaMultirio:
		return normalizeMultirio(s), nil
	case SchemaRioBrasilCategories:
		return normalizeRioBrasilCategories(s), nil
	case SchemaRioBrasilWide:
		return normalizeRioBrasilWide(s), nil
	}
	return nil, schemaMismatch(s)
}

// schemaMismatch builds the error for an unrecognized sheet, reporting the
// variant the sheet came closest to satisfying.
func schemaMismatch(s *Sheet) *SchemaMismatchError {
	best := schemaPredicates[0]
	bestMissing := s.missingColumns(best.required)
	for _, p := range schemaPredicates[1:] {
		missing := s.missingColumns(p.required)
		if len(p.required)-len(missing) > len(best.required)-len(bestMissing) {
			best, bestMissing = p, missing
		}
	}
	return &SchemaMismatchError{Sheet: s.Name, Expected: best.required, Missing: bestMissing}
}

// multirioCategories maps the long-form Multirio availability column names
// (without the " Disp." suffix) onto the three-letter category codes.
var multirioCategories = map[string]Category{
	"ENTREGA CHEIO":        CategoryECH,
	"ENTREGA VAZIO":        CategoryEVZ,
	"RETIRADA CHEIO":       CategoryRCH,
	"RETIRADA VAZIO":       CategoryRVZ,
	"RETIRADA CARGA SOLTA": CategoryRCS,
}

const multirioAvailSuffix = " Disp."

// multirioCategoryFor matches a column either by the fixed " Disp." suffix
// or by exact long-form name. Columns like "ENTREGA CHEIO DL" carry no
// category and are skipped.
func multirioCategoryFor(col string) (Category, bool) {
	col = strings.TrimSpace(col)
	if trimmed, found := strings.CutSuffix(col, multirioAvailSuffix); found {
		col = trimmed
	}
	cat, ok := multirioCategories[strings.TrimSpace(col)]
	return cat, ok
}

func normalizeMultirio(s *Sheet) []Record {
	dateIdx := s.columnIndex("Data")
	labelIdx := s.columnIndex("JANELAS MULTIRIO")

	// Resolve category columns once for the whole sheet.
	type availCol struct {
		idx int
		cat Category
	}
	var availCols []availCol
	for i, col := range s.Columns {
		if cat, ok := multirioCategoryFor(col); ok {
			availCols = append(availCols, availCol{idx: i, cat: cat})
		}
	}

	var recs []Record
	for _, row := range s.Rows {
		date, ok := parseDate(s.cell(row, dateIdx))
		if !ok {
			continue
		}
		var avail Availability
		for _, ac := range availCols {
			avail.Set(ac.cat, numeric(s.cell(row, ac.idx)))
		}
		recs = append(recs, Record{
			Terminal:     TerminalMultirio,
			Date:         date,
			Range:        RangeOf(s.cell(row, labelIdx)),
			Availability: avail,
		})
	}
	return recs
}

// descriptionCategories maps the Rio Brasil DESCRICAO values onto category
// codes. Keys are accent-folded and upper-cased before lookup.
var descriptionCategories = map[string]Category{
	"EXPORTACAO CHEIO":    CategoryECH,
	"IMPORTACAO CHEIO":    CategoryRCH,
	"EXPORTACAO VAZIO":    CategoryEVZ,
	"IMPORTACAO VAZIO":    CategoryRVZ,
	"ENTREGA CARGA SOLTA": CategoryRCS,
}

func normalizeRioBrasilCategories(s *Sheet) []Record {
	dateIdx := s.columnIndex("DATA")
	labelIdx := s.columnIndex("HORA")
	descIdx := s.columnIndex("DESCRICAO")
	availIdx := s.columnIndex("DISPONÍVEL")
	reservedIdx := s.columnIndex("RESERVADA")

	var recs []Record
	for _, row := range s.Rows {
		date, ok := parseDate(s.cell(row, dateIdx))
		if !ok {
			continue
		}
		var avail Availability
		desc := strings.ToUpper(foldAccents(s.cell(row, descIdx)))
		if cat, ok := descriptionCategories[desc]; ok {
			// Exhaustible capacity: disponível minus reservada, negatives
			// included. All other categories stay zero on this row; the
			// aggregation step merges rows of the same window.
			avail.Set(cat, numeric(s.cell(row, availIdx))-numeric(s.cell(row, reservedIdx)))
		}
		recs = append(recs, Record{
			Terminal:     TerminalRioBrasil,
			Date:         date,
			Range:        RangeOf(s.cell(row, labelIdx)),
			Availability: avail,
		})
	}
	return recs
}

// typeColumns are the header names the wide Rio Brasil shape has used for
// its free-text flow direction field across spreadsheet revisions.
var typeColumns = []string{"Tipo", "ENTRADA OU SAÍDA"}

type flowDirection int

const (
	flowUnknown flowDirection = iota
	flowImport
	flowExport
)

// classifyFlow decides import vs export from free text, case-insensitive
// and accent-stripped. Full keywords win over the short forms so that text
// mentioning both is decided by the more specific match; anything matching
// neither stays unknown and the record keeps zero counts instead of being
// rejected.
func classifyFlow(text string) flowDirection {
	t := strings.ToLower(foldAccents(text))
	switch {
	case strings.Contains(t, "import"):
		return flowImport
	case strings.Contains(t, "export"):
		return flowExport
	case strings.Contains(t, "imp"):
		return flowImport
	case strings.Contains(t, "exp"):
		return flowExport
	}
	return flowUnknown
}

func normalizeRioBrasilWide(s *Sheet) []Record {
	dateIdx := s.columnIndex("Dia")
	startIdx := s.columnIndex("Hora Inicial")
	endIdx := s.columnIndex("Hora Final")
	countIdx := s.columnIndex("Qtd Veículos Reservados")

	typeIdx := -1
	for _, name := range typeColumns {
		if idx := s.columnIndex(name); idx >= 0 {
			typeIdx = idx
			break
		}
	}

	var recs []Record
	for _, row := range s.Rows {
		date, ok := parseDate(s.cell(row, dateIdx))
		if !ok {
			continue
		}
		label := s.cell(row, startIdx) + " - " + s.cell(row, endIdx)
		count := numeric(s.cell(row, countIdx))

		var avail Availability
		switch classifyFlow(s.cell(row, typeIdx)) {
		case flowExport:
			avail.ECH = count
		case flowImport:
			avail.RCH = count
		}
		recs = append(recs, Record{
			Terminal:     TerminalRioBrasil,
			Date:         date,
			Range:        RangeOf(label),
			Availability: avail,
		})
	}
	return recs
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents strips combining marks so "EXPORTAÇÃO" compares equal to
// "EXPORTACAO".
func foldAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}
