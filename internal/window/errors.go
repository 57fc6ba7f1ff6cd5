package window

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports that a sheet does not carry the column set any
// known source variant requires. It aborts the whole render: the dashboard
// never shows a partial table.
type SchemaMismatchError struct {
	Sheet    string
	Expected []string
	Missing  []string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("sheet %q: missing required columns [%s] (expected [%s])",
			e.Sheet, strings.Join(e.Missing, ", "), strings.Join(e.Expected, ", "))
	}
	return fmt.Sprintf("sheet %q: no known schema matches columns", e.Sheet)
}
