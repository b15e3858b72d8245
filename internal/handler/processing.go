package handler

import (
	"net/http"

	"poultrycore/internal/apierror"
	"poultrycore/internal/dto"
	"poultrycore/internal/middleware"
	"poultrycore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProcessingHandler struct{ svc service.ProcessingService }

func NewProcessingHandler(svc service.ProcessingService) *ProcessingHandler {
	return &ProcessingHandler{svc: svc}
}

// Create godoc
// @Summary      Run a processing conversion
// @Description  Converts LIVE stock into SKIN or SKINLESS atomically: debit, credit, and wastage in one transaction. Idempotent on (store, idempotency_key).
// @Tags         processing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProcessingRequest true "Processing detail"
// @Success      201 {object} dto.ProcessingResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/processing [post]
func (h *ProcessingHandler) Create(c *gin.Context) {
	var req dto.CreateProcessingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !middleware.CanAccessStore(c, req.StoreID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	claims := middleware.GetClaims(c)
	operatorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), operatorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Calculate previews output and wastage without touching stock.
func (h *ProcessingHandler) Calculate(c *gin.Context) {
	var req dto.CalculateProcessingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Calculate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProcessingHandler) Get(c *gin.Context) {
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

func (h *ProcessingHandler) List(c *gin.Context) {
	var filter dto.ProcessingFilter
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

// ── Wastage configuration (admin) ────────────────────────────────────────────

func (h *ProcessingHandler) CreateWastageConfig(c *gin.Context) {
	var req dto.CreateWastageConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CreateWastageConfig(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProcessingHandler) ListWastageConfigs(c *gin.Context) {
	resp, err := h.svc.ListWastageConfigs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProcessingHandler) DeactivateWastageConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.DeactivateWastageConfig(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
