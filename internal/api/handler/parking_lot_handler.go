package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
)

// ParkingLotHandler chuyển tiếp danh sách bãi xe từ Directory cho màn hình
// chọn bãi. Nút "cho xe vào" chỉ bật với bãi ACTIVE còn chỗ; việc chặn cứng
// nằm ở EntryWorkflowService.
type ParkingLotHandler struct {
	dir directory.SessionDirectory
}

func NewParkingLotHandler(dir directory.SessionDirectory) *ParkingLotHandler {
	return &ParkingLotHandler{dir: dir}
}

// GET /api/v1/parking-lots
func (h *ParkingLotHandler) ListLots(c *gin.Context) {
	lots, err := h.dir.ListLots(c.Request.Context())
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

// GET /api/v1/parking-lots/:id
func (h *ParkingLotHandler) GetLotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bãi đỗ xe không hợp lệ"})
		return
	}

	lot, err := h.dir.FindLotByID(c.Request.Context(), id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}
