package handler

import (
	"net/http"
	"time"

	"poultrycore/internal/apierror"
	"poultrycore/internal/dto"
	"poultrycore/internal/middleware"
	"poultrycore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettlementsHandler struct{ svc service.SettlementService }

func NewSettlementsHandler(svc service.SettlementService) *SettlementsHandler {
	return &SettlementsHandler{svc: svc}
}

// Create godoc
// @Summary      Open a settlement draft
// @Description  Opens the blind end-of-day count for one store and date. At most one settlement per (store, date).
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSettlementRequest true "Store and date"
// @Success      201 {object} dto.SettlementResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/settlements [post]
func (h *SettlementsHandler) Create(c *gin.Context) {
	var req dto.CreateSettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !middleware.CanAccessStore(c, req.StoreID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Submit godoc
// @Summary      Submit the blind count
// @Description  Freezes the declaration, computes expected stock and cash, classifies every partition, deducts shortages immediately, and opens pending logs for surpluses.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Settlement UUID"
// @Param        body body dto.SubmitSettlementRequest true "Declared stock and cash"
// @Success      200 {object} dto.SubmitSettlementResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/settlements/{id}/submit [post]
func (h *SettlementsHandler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.SubmitSettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Submit(c.Request.Context(), id, actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettlementsHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	approverID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Approve(c.Request.Context(), id, approverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettlementsHandler) Lock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Lock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettlementsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettlementsHandler) List(c *gin.Context) {
	var filter dto.SettlementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if !middleware.CanAccessStore(c, filter.StoreID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expected previews the expected side for a store and date. Manager-only —
// never shown to the staff doing the blind count.
func (h *SettlementsHandler) Expected(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
			return
		}
		date = t
	}
	stock, cash, err := h.svc.ExpectedFor(c.Request.Context(), storeID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store_id":       storeID,
		"date":           date.Format("2006-01-02"),
		"expected_stock": stock,
		"expected_cash":  cash,
	})
}
