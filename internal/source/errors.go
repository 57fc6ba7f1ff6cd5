package source

import "fmt"

// FetchError wraps a failure to retrieve a source spreadsheet. Fetches are
// attempted exactly once per render cycle; a fetch failure aborts the whole
// render and is surfaced to the user.
type FetchError struct {
	FileID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch spreadsheet %s: %v", e.FileID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
