package domain

// Đăng nhập được ủy quyền cho Session Directory; terminal chỉ chuyển tiếp
// thông tin đăng nhập và giữ token phía client.
type LoginUserDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponseDTO struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"` // "admin" hoặc "operator"
}
