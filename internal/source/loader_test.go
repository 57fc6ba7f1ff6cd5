package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"janelas-backend/config"
	"janelas-backend/internal/window"
)

type stubFetcher struct {
	sheets map[string]*window.Sheet
	errs   map[string]error
	calls  map[string]int
}

func (f *stubFetcher) Fetch(_ context.Context, fileID string) (*window.Sheet, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[fileID]++
	if err := f.errs[fileID]; err != nil {
		return nil, err
	}
	return f.sheets[fileID], nil
}

func testSourceConfig(ttl time.Duration) *config.SourceConfig {
	return &config.SourceConfig{
		MultirioFileID:  "mr",
		RioBrasilFileID: "rb",
		CacheTTL:        ttl,
	}
}

func multirioSheet() *window.Sheet {
	return &window.Sheet{
		Columns: []string{"Data", "JANELAS MULTIRIO", "ENTREGA CHEIO Disp."},
		Rows: [][]string{
			{"02/01/2024", "08:00 - 09:00", "3"},
		},
	}
}

func rioBrasilSheet() *window.Sheet {
	return &window.Sheet{
		Columns: []string{"DATA", "HORA", "DESCRICAO", "DISPONÍVEL", "RESERVADA"},
		Rows: [][]string{
			{"02/01/2024", "08:00 - 09:00", "EXPORTAÇÃO CHEIO", "6", "2"},
		},
	}
}

func TestLoaderCachesWithinTTL(t *testing.T) {
	f := &stubFetcher{sheets: map[string]*window.Sheet{"mr": multirioSheet(), "rb": rioBrasilSheet()}}
	l := NewLoader(f, testSourceConfig(time.Minute))

	for i := 0; i < 3; i++ {
		_, _, err := l.Load(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.calls["mr"])
	assert.Equal(t, 1, f.calls["rb"])
}

func TestLoaderInvalidateForcesRefetch(t *testing.T) {
	f := &stubFetcher{sheets: map[string]*window.Sheet{"mr": multirioSheet(), "rb": rioBrasilSheet()}}
	l := NewLoader(f, testSourceConfig(time.Minute))

	_, _, err := l.Load(context.Background())
	require.NoError(t, err)

	l.Invalidate()

	_, _, err = l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, f.calls["mr"])
	assert.Equal(t, 2, f.calls["rb"])
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	f := &stubFetcher{
		sheets: map[string]*window.Sheet{"mr": multirioSheet(), "rb": rioBrasilSheet()},
		errs:   map[string]error{"rb": &FetchError{FileID: "rb", Err: errors.New("boom")}},
	}
	l := NewLoader(f, testSourceConfig(time.Minute))

	_, _, err := l.Load(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "rb", fe.FileID)

	// The failing file is retried on the next pass, the good one is cached.
	delete(f.errs, "rb")
	_, _, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls["mr"])
	assert.Equal(t, 2, f.calls["rb"])
}

func TestLoaderUnified(t *testing.T) {
	f := &stubFetcher{sheets: map[string]*window.Sheet{"mr": multirioSheet(), "rb": rioBrasilSheet()}}
	l := NewLoader(f, testSourceConfig(time.Minute))

	table, err := l.Unified(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, window.TerminalMultirio, table[0].Terminal)
	assert.Equal(t, 3, table[0].Availability.ECH)
	assert.Equal(t, window.TerminalRioBrasil, table[1].Terminal)
	assert.Equal(t, 4, table[1].Availability.ECH)
}

func TestLoaderUnifiedSchemaMismatch(t *testing.T) {
	bad := &window.Sheet{Columns: []string{"DATA", "HORA", "DESCRICAO"}, Rows: nil}
	f := &stubFetcher{sheets: map[string]*window.Sheet{"mr": multirioSheet(), "rb": bad}}
	l := NewLoader(f, testSourceConfig(time.Minute))

	_, err := l.Unified(context.Background())
	var sm *window.SchemaMismatchError
	require.ErrorAs(t, err, &sm)
}
