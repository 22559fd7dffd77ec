package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

type ExitWorkflowHandler struct {
	exitService *service.ExitWorkflowService
}

func NewExitWorkflowHandler(es *service.ExitWorkflowService) *ExitWorkflowHandler {
	return &ExitWorkflowHandler{exitService: es}
}

// POST /api/v1/exit-workflows
func (h *ExitWorkflowHandler) Start(c *gin.Context) {
	c.JSON(http.StatusCreated, h.exitService.Start())
}

// GET /api/v1/exit-workflows/:id
func (h *ExitWorkflowHandler) Get(c *gin.Context) {
	view, err := h.exitService.Get(c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/v1/exit-workflows/:id/lookup: tra phiên theo code + biển số.
func (h *ExitWorkflowHandler) Lookup(c *gin.Context) {
	var dto domain.ExitLookupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ: " + err.Error()})
		return
	}

	view, err := h.exitService.Lookup(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/v1/exit-workflows/:id/capture: chụp ảnh xe lúc ra (bắt buộc).
func (h *ExitWorkflowHandler) Capture(c *gin.Context) {
	view, err := h.exitService.Capture(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/v1/exit-workflows/:id/confirm: kết thúc phiên, nhận phí và
// cặp ảnh vào/ra để hiển thị cạnh nhau.
func (h *ExitWorkflowHandler) Confirm(c *gin.Context) {
	view, err := h.exitService.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/v1/exit-workflows/:id
func (h *ExitWorkflowHandler) Cancel(c *gin.Context) {
	if err := h.exitService.Cancel(c.Param("id")); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã hủy quy trình"})
}
