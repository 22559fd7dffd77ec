package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

type EntryWorkflowHandler struct {
	entryService *service.EntryWorkflowService
}

func NewEntryWorkflowHandler(es *service.EntryWorkflowService) *EntryWorkflowHandler {
	return &EntryWorkflowHandler{entryService: es}
}

type startEntryDTO struct {
	LotID int `json:"lot_id" binding:"required"`
}

// POST /api/v1/entry-workflows
func (h *EntryWorkflowHandler) Start(c *gin.Context) {
	var dto startEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ: " + err.Error()})
		return
	}

	view, err := h.entryService.Start(c.Request.Context(), dto.LotID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GET /api/v1/entry-workflows/:id
func (h *EntryWorkflowHandler) Get(c *gin.Context) {
	view, err := h.entryService.Get(c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/v1/entry-workflows/:id/capture: chụp ảnh và nhận dạng biển số.
func (h *EntryWorkflowHandler) Capture(c *gin.Context) {
	view, err := h.entryService.CaptureAndRecognize(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/v1/entry-workflows/:id/confirm: operator chốt biển số và loại xe.
func (h *EntryWorkflowHandler) Confirm(c *gin.Context) {
	var dto domain.EntryConfirmDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ: " + err.Error()})
		return
	}

	view, err := h.entryService.Confirm(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// DELETE /api/v1/entry-workflows/:id
func (h *EntryWorkflowHandler) Cancel(c *gin.Context) {
	if err := h.entryService.Cancel(c.Param("id")); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã hủy quy trình"})
}
