package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

// AuthHandler chuyển tiếp đăng nhập tới Directory. Terminal không lưu mật
// khẩu hay token; token trả về được UI giữ và gửi kèm mỗi request.
type AuthHandler struct {
	dir directory.SessionDirectory
}

func NewAuthHandler(dir directory.SessionDirectory) *AuthHandler {
	return &AuthHandler{dir: dir}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authResponse, err := h.dir.Login(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, directory.ErrUnauthorized) || errors.Is(err, directory.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Tên đăng nhập hoặc mật khẩu không đúng"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Lỗi đăng nhập", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, authResponse)
}
