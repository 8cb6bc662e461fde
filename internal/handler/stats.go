package handler

import (
	"net/http"
	"time"

	"github.com/aman-churiwal/book-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Summary returns a traffic summary for the requested time range,
// defaulting to the last 24 hours.
func (h *StatsHandler) Summary(c *gin.Context) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "from must be an RFC3339 timestamp")
			return
		}
		from = parsed
	}

	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "to must be an RFC3339 timestamp")
			return
		}
		to = parsed
	}

	ctx := c.Request.Context()
	summary, err := h.service.GetSummary(ctx, from, to)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
