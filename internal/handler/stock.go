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

type StockHandler struct {
	svc service.StockService
}

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func storeIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("storeID"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid store ID"))
		return 0, false
	}
	if !middleware.CanAccessStore(c, id) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return 0, false
	}
	return id, true
}

// Matrix godoc
// @Summary      Current stock matrix
// @Description  Full bird_type x inventory_state grid in kg, optionally at a historical instant (?as_of=RFC3339).
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        storeID path  int    true  "Store ID"
// @Param        as_of   query string false "RFC3339 timestamp"
// @Success      200 {object} dto.StockMatrixResponse
// @Router       /v1/stores/{storeID}/stock [get]
func (h *StockHandler) Matrix(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	var asOf *time.Time
	asOfLabel := "now"
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("as_of must be RFC3339"))
			return
		}
		asOf = &t
		asOfLabel = t.Format(time.RFC3339)
	}

	matrix, err := h.svc.Matrix(c.Request.Context(), storeID, asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockMatrixResponse{StoreID: storeID, AsOf: asOfLabel, Stock: matrix})
}

// Movement returns the per-category decomposition of one business day.
func (h *StockHandler) Movement(c *gin.Context) {
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
	resp, err := h.svc.Movement(c.Request.Context(), storeID, date, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ledger returns the raw paginated entry list.
func (h *StockHandler) Ledger(c *gin.Context) {
	var filter dto.LedgerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if !middleware.CanAccessStore(c, filter.StoreID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	resp, err := h.svc.ListLedger(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAdjustment posts a MANUAL_ADJUSTMENT entry (admin only, routed).
func (h *StockHandler) CreateAdjustment(c *gin.Context) {
	var req dto.CreateAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	entry, err := h.svc.RecordAdjustment(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":              entry.ID.String(),
		"store_id":        entry.StoreID,
		"bird_type":       entry.BirdType,
		"inventory_state": entry.InventoryState,
		"quantity_delta":  entry.QuantityDelta,
		"reason_code":     entry.ReasonCode,
	})
}
