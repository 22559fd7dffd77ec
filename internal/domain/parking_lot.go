package domain

import "time"

type ParkingLotStatus string

const (
	LotActive   ParkingLotStatus = "ACTIVE"
	LotInactive ParkingLotStatus = "INACTIVE"
)

type ParkingLot struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Address        string           `json:"address,omitempty"`
	Status         ParkingLotStatus `json:"status"`
	TotalSlots     int              `json:"total_slots"`
	AvailableSlots int              `json:"available_slots"`
	VehicleTypes   []string         `json:"vehicle_types"` // ví dụ: "Ô tô", "Xe máy"
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AcceptsVehicleType kiểm tra loại xe có nằm trong danh sách loại xe
// mà bãi này khai báo hay không.
func (l *ParkingLot) AcceptsVehicleType(vehicleType string) bool {
	for _, vt := range l.VehicleTypes {
		if vt == vehicleType {
			return true
		}
	}
	return false
}

// AcceptsEntry: chỉ bãi đang ACTIVE và còn chỗ trống mới được mở quy trình
// cho xe vào.
func (l *ParkingLot) AcceptsEntry() bool {
	return l.Status == LotActive && l.AvailableSlots > 0
}
