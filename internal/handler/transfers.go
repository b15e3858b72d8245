package handler

import (
	"net/http"
	"strconv"

	"poultrycore/internal/apierror"
	"poultrycore/internal/dto"
	"poultrycore/internal/middleware"
	"poultrycore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransfersHandler struct{ svc service.TransferService }

func NewTransfersHandler(svc service.TransferService) *TransfersHandler {
	return &TransfersHandler{svc: svc}
}

// Create moves stock between stores; the caller must have access to the
// source store.
func (h *TransfersHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !middleware.CanAccessStore(c, req.FromStoreID) {
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

func (h *TransfersHandler) List(c *gin.Context) {
	storeID, err := strconv.Atoi(c.Query("store_id"))
	if err != nil || storeID < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("store_id is required"))
		return
	}
	if !middleware.CanAccessStore(c, storeID) {
		c.JSON(http.StatusForbidden, apierror.New("Store not accessible"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.List(c.Request.Context(), storeID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
