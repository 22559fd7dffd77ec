package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

type SessionHandler struct {
	dir           directory.SessionDirectory
	reportService *service.ReportService
}

func NewSessionHandler(dir directory.SessionDirectory, rs *service.ReportService) *SessionHandler {
	return &SessionHandler{dir: dir, reportService: rs}
}

// GET /api/v1/parking-sessions/active
func (h *SessionHandler) ListActiveSessions(c *gin.Context) {
	sessions, err := h.dir.ListActiveSessions(c.Request.Context())
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /api/v1/parking-sessions?lotId=&status=&from=&to=
func (h *SessionHandler) FindSessions(c *gin.Context) {
	var filter domain.SessionFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tham số filter không hợp lệ: " + err.Error()})
		return
	}

	sessions, err := h.dir.FindSessions(c.Request.Context(), filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /api/v1/reports/revenue?lotId=&from=&to=
func (h *SessionHandler) RevenueReport(c *gin.Context) {
	var filter domain.SessionFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tham số filter không hợp lệ: " + err.Error()})
		return
	}

	report, err := h.reportService.Revenue(c.Request.Context(), filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
