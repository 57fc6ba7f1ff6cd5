package api

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetExportCSV handles GET /api/export.csv: the unified table as a flat
// CSV download, one row per window.
func (h *Handler) GetExportCSV(c *gin.Context) {
	table, ok := h.unified(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="janelas.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Terminal", "Data", "Horário", "ECH", "EVZ", "RCH", "RVZ", "RCS"})
	for _, rec := range table {
		w.Write([]string{
			rec.Terminal.DisplayName(),
			rec.Date.Format(dateFormat),
			rec.Range.Label,
			strconv.Itoa(rec.Availability.ECH),
			strconv.Itoa(rec.Availability.EVZ),
			strconv.Itoa(rec.Availability.RCH),
			strconv.Itoa(rec.Availability.RVZ),
			strconv.Itoa(rec.Availability.RCS),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		// Headers are already out; nothing to send the client but a log.
		log.Printf("csv export aborted mid-stream: %v", err)
	}
}
