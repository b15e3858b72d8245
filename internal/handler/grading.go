package handler

import (
	"net/http"
	"strconv"
	"time"

	"poultrycore/internal/apierror"
	"poultrycore/internal/dto"
	"poultrycore/internal/middleware"
	"poultrycore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GradingHandler struct{ svc service.GradingService }

func NewGradingHandler(svc service.GradingService) *GradingHandler {
	return &GradingHandler{svc: svc}
}

func monthQuery(c *gin.Context) (storeID, year, month int, ok bool) {
	storeID, err := strconv.Atoi(c.Query("store_id"))
	if err != nil || storeID < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("store_id is required"))
		return 0, 0, 0, false
	}
	year, err = strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("year is required"))
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, apierror.New("month must be 1-12"))
		return 0, 0, 0, false
	}
	return storeID, year, month, true
}

// Generate godoc
// @Summary      Generate monthly grades
// @Description  Recomputes the performance rows for every staff member with activity at the store in the month. Locked rows are skipped.
// @Tags         grading
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GenerateGradesRequest true "Store and month"
// @Success      200 {object} dto.GenerateGradesResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/grading/generate [post]
func (h *GradingHandler) Generate(c *gin.Context) {
	var req dto.GenerateGradesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Lock freezes the month for payroll; repeat calls are no-ops.
func (h *GradingHandler) Lock(c *gin.Context) {
	var req dto.LockGradesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	locked, err := h.svc.Lock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": locked})
}

func (h *GradingHandler) ListPerformance(c *gin.Context) {
	storeID, year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	if !middleware.CanAccessStore(c, storeID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	resp, err := h.svc.ListPerformance(c.Request.Context(), storeID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MyPerformance returns the caller's own month row.
func (h *GradingHandler) MyPerformance(c *gin.Context) {
	storeID, year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.MyPerformance(c.Request.Context(), userID, storeID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MyPoints returns the caller's point journal for a window (default: last 90 days).
func (h *GradingHandler) MyPoints(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	to := time.Now()
	from := to.AddDate(0, 0, -90)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t
		}
	}

	resp, err := h.svc.MyPoints(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AwardPoints posts a manual point entry (admin only, routed).
func (h *GradingHandler) AwardPoints(c *gin.Context) {
	var req dto.AwardPointsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.AwardPoints(c.Request.Context(), actorID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ── Configuration ────────────────────────────────────────────────────────────

func (h *GradingHandler) GetConfig(c *gin.Context) {
	var storeID *int
	if raw := c.Query("store_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid store_id"))
			return
		}
		storeID = &id
	}
	resp, err := h.svc.GetConfig(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GradingHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateGradingConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateConfig(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GradingHandler) ListReasonCodes(c *gin.Context) {
	resp, err := h.svc.ListReasonCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GradingHandler) UpdateReasonCode(c *gin.Context) {
	var req dto.UpdateReasonCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateReasonCode(c.Request.Context(), c.Param("code"), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
