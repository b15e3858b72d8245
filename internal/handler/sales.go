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

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Register a sale
// @Description  Posts a multi-line sale: sufficiency under advisory locks, sequential receipt number, one ledger debit per line. Idempotent on (store, idempotency_key).
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale detail"
// @Success      201 {object} dto.SaleResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !middleware.CanAccessStore(c, req.StoreID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	claims := middleware.GetClaims(c)
	cashierID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), cashierID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) Get(c *gin.Context) {
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

func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
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

// DailySummary returns payment-method totals for one store and day.
func (h *SalesHandler) DailySummary(c *gin.Context) {
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
	resp, err := h.svc.DailySummary(c.Request.Context(), storeID, date, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
