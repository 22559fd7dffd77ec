package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/camera"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

// respondWorkflowError ánh xạ lỗi của tầng workflow/directory về mã HTTP.
// Mọi lỗi đều là thông báo tạm thời cho operator, không lỗi nào là chết người.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrMissingImage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRequestInFlight):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCodeMismatch):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeMismatch.Error()})
	case errors.Is(err, service.ErrLotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPlateNotRecognized):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrPlateNotRecognized.Error()})
	case errors.Is(err, directory.ErrDuplicateActiveSession):
		c.JSON(http.StatusConflict, gin.H{"error": directory.ErrDuplicateActiveSession.Error()})
	case errors.Is(err, directory.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, directory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, camera.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, camera.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Lỗi hệ thống, vui lòng thử lại", "details": err.Error()})
	}
}
