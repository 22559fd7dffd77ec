package service

import (
	"context"
	"errors"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

var (
	ErrWorkflowNotFound   = errors.New("không tìm thấy quy trình")
	ErrInvalidState       = errors.New("thao tác không hợp lệ ở bước hiện tại của quy trình")
	ErrRequestInFlight    = errors.New("yêu cầu trước đó đang được xử lý, vui lòng chờ")
	ErrValidation         = errors.New("dữ liệu chưa hợp lệ")
	ErrPlateNotRecognized = errors.New("không nhận dạng được biển số từ ảnh")
	ErrCodeMismatch       = errors.New("mã phiên không khớp với biển số xe")
	ErrSessionCompleted   = errors.New("phiên gửi xe đã kết thúc, không thể thao tác thêm")
	ErrMissingImage       = errors.New("chưa có ảnh chụp cho bước này")
	ErrLotUnavailable     = errors.New("bãi đỗ xe không hoạt động hoặc đã hết chỗ trống")
)

// PlateRecognizer dịch một ảnh chụp thành biển số dự đoán. Kết quả rỗng hay
// toàn khoảng trắng được trả về như lỗi, không bao giờ như một biển số hợp lệ.
type PlateRecognizer interface {
	Recognize(ctx context.Context, image []byte) (*domain.RecognitionResult, error)
}

// CameraLease là quyền dùng camera mà một quy trình đang giữ.
// Release phải được gọi trên mọi đường thoát; gọi lặp lại là an toàn.
type CameraLease interface {
	Snapshot(ctx context.Context) ([]byte, error)
	Release()
}

// CameraGate cấp lease camera cho đúng một quy trình tại một thời điểm.
type CameraGate interface {
	Acquire(holder string) (CameraLease, error)
}

// SessionNotifier nhận các sự kiện phiên gửi xe để đẩy tới dashboard.
type SessionNotifier interface {
	NotifySessionEvent(event domain.SessionEventNotification)
}
