package handler

import (
	"net/http"
	"time"

	"poultrycore/internal/apierror"
	"poultrycore/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{ sched service.ScheduledService }

func NewAdminHandler(sched service.ScheduledService) *AdminHandler {
	return &AdminHandler{sched: sched}
}

// RunDailyChecks triggers the daily penalty sweep on demand, for a given
// business date (default: yesterday). The sweep is deduped per user per
// day, so re-triggering is safe.
func (h *AdminHandler) RunDailyChecks(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
		return
	}

	report, err := h.sched.RunDailyChecks(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
