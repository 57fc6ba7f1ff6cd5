package source

import (
	"context"

	"github.com/patrickmn/go-cache"

	"janelas-backend/config"
	"janelas-backend/internal/window"
)

// Fetcher retrieves a single spreadsheet as a raw sheet.
type Fetcher interface {
	Fetch(ctx context.Context, fileID string) (*window.Sheet, error)
}

// Loader memoizes the fetched raw tables for a short TTL so rapid repeated
// dashboard views reuse one download. Invalidation is time-based or manual;
// fetch failures are never cached.
type Loader struct {
	fetcher     Fetcher
	cache       *cache.Cache
	multirioID  string
	rioBrasilID string
}

// NewLoader creates a loader over the configured source file IDs.
func NewLoader(f Fetcher, cfg *config.SourceConfig) *Loader {
	return &Loader{
		fetcher:     f,
		cache:       cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		multirioID:  cfg.MultirioFileID,
		rioBrasilID: cfg.RioBrasilFileID,
	}
}

// Load fetches (or reuses) the raw tables of both terminals.
func (l *Loader) Load(ctx context.Context) (multirio, rioBrasil *window.Sheet, err error) {
	if multirio, err = l.load(ctx, l.multirioID); err != nil {
		return nil, nil, err
	}
	if rioBrasil, err = l.load(ctx, l.rioBrasilID); err != nil {
		return nil, nil, err
	}
	return multirio, rioBrasil, nil
}

func (l *Loader) load(ctx context.Context, fileID string) (*window.Sheet, error) {
	if cached, found := l.cache.Get(fileID); found {
		return cached.(*window.Sheet), nil
	}
	sheet, err := l.fetcher.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}
	l.cache.SetDefault(fileID, sheet)
	return sheet, nil
}

// Unified builds the unified window table for one render pass: fetch both
// sources, normalize each, concatenate and aggregate. Any fetch or schema
// error aborts the pass; no partial table is returned.
func (l *Loader) Unified(ctx context.Context) ([]window.Record, error) {
	multirio, rioBrasil, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	multirioRecs, err := window.Normalize(multirio)
	if err != nil {
		return nil, err
	}
	rioBrasilRecs, err := window.Normalize(rioBrasil)
	if err != nil {
		return nil, err
	}
	return window.Unify(multirioRecs, rioBrasilRecs), nil
}

// Invalidate drops the cached tables so the next load fetches fresh data.
func (l *Loader) Invalidate() {
	l.cache.Flush()
}
