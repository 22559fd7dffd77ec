package directory

import (
	"context"
	"errors"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateActiveSession = errors.New("Xe đã có phiên gửi xe đang hoạt động")
var ErrUnauthorized = errors.New("phiên đăng nhập không hợp lệ hoặc đã hết hạn")

// EntryRequest là dữ liệu tạo phiên gửi xe mới: metadata JSON + ảnh chụp
// lúc vào, gửi dưới dạng multipart.
type EntryRequest struct {
	LotID        int
	LicensePlate string
	Code         string // code gợi ý phía client; Directory có thể cấp lại code khác
	VehicleType  string
	Image        []byte
}

// ExitRequest là dữ liệu kết thúc phiên gửi xe: code + biển số + ảnh chụp lúc ra.
type ExitRequest struct {
	Code         string
	LicensePlate string
	Image        []byte
}

// SessionDirectory là backend bãi xe, nguồn sự thật duy nhất về phiên gửi xe,
// chỗ trống và tính phí. Terminal chỉ gọi qua REST, không giữ bản sao nào.
type SessionDirectory interface {
	CreateEntry(ctx context.Context, req EntryRequest) (*domain.ParkingSession, error)
	FindSessionByCode(ctx context.Context, code string) (*domain.ParkingSession, error)
	CreateExit(ctx context.Context, req ExitRequest) (*domain.ParkingSession, error)
	ListActiveSessions(ctx context.Context) ([]domain.ParkingSession, error)
	FindSessions(ctx context.Context, filter domain.SessionFilterDTO) ([]domain.ParkingSession, error)

	FindLotByID(ctx context.Context, id int) (*domain.ParkingLot, error)
	ListLots(ctx context.Context) ([]domain.ParkingLot, error)

	Login(ctx context.Context, dto domain.LoginUserDTO) (*domain.AuthResponseDTO, error)
}

type tokenCtxKey struct{}

// WithToken gắn bearer token của operator vào context. Mọi request tới
// Directory đều đọc token từ đây; terminal không lưu token ở chỗ nào khác.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenCtxKey{}).(string)
	return token
}
