package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"janelas-backend/internal/window"
)

// windowResponse is one window row with its schedule state attached. The
// state only makes sense for today's bucket; future days always report
// not_started.
type windowResponse struct {
	window.Record
	State string `json:"state"`
}

// terminalInfo is the reference block the frontend uses for row styling.
type terminalInfo struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// nextWindowResponse is the "próxima janela disponível" banner payload for
// one terminal; a nil entry means no window remains today.
type nextWindowResponse struct {
	Label        string              `json:"label"`
	StartHour    int                 `json:"startHour"`
	EndHour      int                 `json:"endHour"`
	Active       bool                `json:"active"`
	Availability window.Availability `json:"availability"`
}

type bucketResponse struct {
	Label   string           `json:"label"`
	Date    string           `json:"date"`
	Windows []windowResponse `json:"windows"`
}

type dashboardResponse struct {
	GeneratedAt time.Time                      `json:"generatedAt"`
	Today       string                         `json:"today"`
	Buckets     []bucketResponse               `json:"buckets"`
	Next        map[string]*nextWindowResponse `json:"next"`
	Terminals   []terminalInfo                 `json:"terminals"`
	Legend      map[window.Category]string     `json:"legend"`
}

const dateFormat = "2006-01-02"

// GetWindows handles GET /api/windows: the raw unified table, before any
// schedule filtering, for clients that want to render their own view.
func (h *Handler) GetWindows(c *gin.Context) {
	table, ok := h.unified(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, table)
}

// GetDashboard handles GET /api/dashboard: the three display buckets, the
// next-window banner per terminal, and the static reference blocks, all in
// one payload.
func (h *Handler) GetDashboard(c *gin.Context) {
	table, ok := h.unified(c)
	if !ok {
		return
	}

	clk := h.clock()
	buckets := window.Buckets(table, clk)

	resp := dashboardResponse{
		GeneratedAt: h.now().In(h.tz),
		Today:       clk.Today.Format(dateFormat),
		Buckets:     make([]bucketResponse, 0, len(buckets)),
		Next:        nextByTerminal(table, clk),
		Legend:      window.Legend,
	}

	for i, b := range buckets {
		rows := make([]windowResponse, 0, len(b.Windows))
		for _, rec := range b.Windows {
			state := window.StateNotStarted
			if i == 0 {
				state = rec.StateAt(clk.Hour)
			}
			rows = append(rows, windowResponse{Record: rec, State: state.String()})
		}
		resp.Buckets = append(resp.Buckets, bucketResponse{
			Label:   b.Label,
			Date:    b.Date.Format(dateFormat),
			Windows: rows,
		})
	}

	colors, err := h.store.TerminalColors(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load terminals"})
		return
	}
	for _, t := range window.Terminals {
		resp.Terminals = append(resp.Terminals, terminalInfo{
			Code:  string(t),
			Name:  t.DisplayName(),
			Color: colors[string(t)],
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetNext handles GET /api/next: just the banner payloads.
func (h *Handler) GetNext(c *gin.Context) {
	table, ok := h.unified(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, nextByTerminal(table, h.clock()))
}

// nextByTerminal builds the banner payload for every terminal; entries stay
// nil when no window remains today.
func nextByTerminal(table []window.Record, clk window.Clock) map[string]*nextWindowResponse {
	next := make(map[string]*nextWindowResponse, len(window.Terminals))
	for _, t := range window.Terminals {
		if rec := window.Next(table, clk, t); rec != nil {
			next[string(t)] = &nextWindowResponse{
				Label:        rec.Range.Label,
				StartHour:    rec.Range.Start,
				EndHour:      rec.Range.End,
				Active:       rec.StateAt(clk.Hour) == window.StateActive,
				Availability: rec.Availability,
			}
		} else {
			next[string(t)] = nil
		}
	}
	return next
}

// Refresh handles POST /api/refresh: drop the memoized source tables and
// any cached pages so the next request fetches fresh spreadsheets.
func (h *Handler) Refresh(c *gin.Context) {
	h.provider.Invalidate()
	if h.flushPages != nil {
		h.flushPages()
	}
	c.Status(http.StatusNoContent)
}
