package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"janelas-backend/internal/source"
	"janelas-backend/internal/store"
	"janelas-backend/internal/window"
)

// TableProvider yields the unified window table for one render pass.
type TableProvider interface {
	Unified(ctx context.Context) ([]window.Record, error)
	Invalidate()
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	provider TableProvider
	store    store.Store
	webpush  *webpush.Options
	tz       *time.Location

	// now is swapped out in tests to pin the render clock.
	now func() time.Time
	// flushPages drops the response cache alongside the source cache on
	// an explicit refresh.
	flushPages func()
}

// NewHandler creates a new API handler.
func NewHandler(p TableProvider, s store.Store, webpushOptions *webpush.Options, tz *time.Location) *Handler {
	return &Handler{
		provider: p,
		store:    s,
		webpush:  webpushOptions,
		tz:       tz,
		now:      time.Now,
	}
}

// clock derives the render instant in the configured source timezone.
func (h *Handler) clock() window.Clock {
	return window.ClockAt(h.now().In(h.tz))
}

// unified loads the unified table, translating pipeline failures into HTTP
// responses. Fetch and schema errors are upstream faults and map to 502;
// anything else is a 500.
func (h *Handler) unified(c *gin.Context) ([]window.Record, bool) {
	table, err := h.provider.Unified(c.Request.Context())
	if err == nil {
		return table, true
	}

	var fetchErr *source.FetchError
	var schemaErr *window.SchemaMismatchError
	switch {
	case errors.As(err, &fetchErr):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":   "failed to fetch source spreadsheet",
			"file_id": fetchErr.FileID,
		})
	case errors.As(err, &schemaErr):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":   "source spreadsheet layout changed",
			"sheet":   schemaErr.Sheet,
			"missing": schemaErr.Missing,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "failed to build window table",
		})
	}
	return nil, false
}
