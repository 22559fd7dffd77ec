package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type ParkingSessionStatus string

const (
	SessionActive    ParkingSessionStatus = "ACTIVE"
	SessionCompleted ParkingSessionStatus = "COMPLETED"
)

// ParkingSession là một lượt gửi xe, từ lúc vào cổng đến lúc ra cổng.
// Code chỉ duy nhất trong phạm vi các phiên đang ACTIVE; phiên đã
// COMPLETED có thể nhường lại code cho phiên mới.
type ParkingSession struct {
	ID            int                  `json:"id"`
	Code          string               `json:"code"`
	LotID         int                  `json:"lot_id"`
	LicensePlate  string               `json:"license_plate"`
	VehicleType   string               `json:"vehicle_type"`
	EntryTime     time.Time            `json:"entry_time"`
	ExitTime      null.Time            `json:"exit_time"`
	EntryImageURL string               `json:"entry_image_url,omitempty"`
	ExitImageURL  null.String          `json:"exit_image_url,omitempty"`
	TotalCost     null.Float           `json:"total_cost"`
	Status        ParkingSessionStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// DTO cho bước xác nhận của quy trình xe vào. Operator có thể sửa biển số
// mà máy nhận dạng gợi ý trước khi gửi.
type EntryConfirmDTO struct {
	LicensePlate string `json:"license_plate" binding:"required"`
	VehicleType  string `json:"vehicle_type" binding:"required"`
}

// DTO cho bước tra cứu của quy trình xe ra.
type ExitLookupDTO struct {
	Code         string `json:"code" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
}

type SessionFilterDTO struct {
	LotID  *int    `form:"lotId"`
	Status *string `form:"status"`
	From   *string `form:"from"` // YYYY-MM-DD
	To     *string `form:"to"`   // YYYY-MM-DD
}
