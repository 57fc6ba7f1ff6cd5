package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"janelas-backend/internal/window"
)

// GetLegend handles GET /api/legend: the fixed category reference table and
// the terminal color mapping.
func (h *Handler) GetLegend(c *gin.Context) {
	colors, err := h.store.TerminalColors(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load terminals"})
		return
	}

	terminals := make([]terminalInfo, 0, len(window.Terminals))
	for _, t := range window.Terminals {
		terminals = append(terminals, terminalInfo{
			Code:  string(t),
			Name:  t.DisplayName(),
			Color: colors[string(t)],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": window.Legend,
		"terminals":  terminals,
	})
}
