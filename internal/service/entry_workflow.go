package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

type EntryState string

const (
	EntryStateCapturing   EntryState = "capturing"
	EntryStateRecognizing EntryState = "recognizing"
	EntryStateConfirming  EntryState = "confirming"
	EntryStateSubmitting  EntryState = "submitting"
	EntryStateSucceeded   EntryState = "succeeded"
)

// EntryWorkflow là một lượt cho xe vào đang chạy dở: chụp ảnh → nhận dạng →
// operator xác nhận → gửi lên Directory. Ảnh chụp chỉ sống trong bộ nhớ của
// quy trình và bị hủy khi quy trình kết thúc dù thành công hay không.
type EntryWorkflow struct {
	ID    string
	LotID int

	mu             sync.Mutex
	state          EntryState
	lot            *domain.ParkingLot
	image          []byte
	suggestedPlate string
	notice         string
	session        *domain.ParkingSession
	lease          CameraLease
	updatedAt      time.Time
}

// EntryWorkflowView là phần trạng thái an toàn để trả về cho UI.
// Ảnh thô không bao giờ rời khỏi quy trình.
type EntryWorkflowView struct {
	ID             string                 `json:"id"`
	LotID          int                    `json:"lot_id"`
	State          EntryState             `json:"state"`
	VehicleTypes   []string               `json:"vehicle_types"`
	HasImage       bool                   `json:"has_image"`
	SuggestedPlate string                 `json:"suggested_plate,omitempty"`
	Notice         string                 `json:"notice,omitempty"`
	Session        *domain.ParkingSession `json:"session,omitempty"`
	PickupCode     string                 `json:"pickup_code,omitempty"`
}

func (w *EntryWorkflow) view() *EntryWorkflowView {
	v := &EntryWorkflowView{
		ID:             w.ID,
		LotID:          w.LotID,
		State:          w.state,
		HasImage:       len(w.image) > 0,
		SuggestedPlate: w.suggestedPlate,
		Notice:         w.notice,
		Session:        w.session,
	}
	if w.lot != nil {
		v.VehicleTypes = w.lot.VehicleTypes
	}
	if w.session != nil {
		// Code do Directory cấp mới là code chính thức để trả cho chủ xe.
		v.PickupCode = w.session.Code
	}
	return v
}

type EntryWorkflowService struct {
	dir        directory.SessionDirectory
	recognizer PlateRecognizer
	camera     CameraGate
	codes      *CodeGenerator
	notifier   SessionNotifier

	mu        sync.RWMutex
	workflows map[string]*EntryWorkflow
}

func NewEntryWorkflowService(dir directory.SessionDirectory, recognizer PlateRecognizer,
	camera CameraGate, codes *CodeGenerator, notifier SessionNotifier) *EntryWorkflowService {
	return &EntryWorkflowService{
		dir:        dir,
		recognizer: recognizer,
		camera:     camera,
		codes:      codes,
		notifier:   notifier,
		workflows:  make(map[string]*EntryWorkflow),
	}
}

// Start mở quy trình cho xe vào ở một bãi. Bãi phải đang ACTIVE và còn chỗ;
// UI đã chặn từ trước nhưng Directory mới là trọng tài cuối cùng.
func (s *EntryWorkflowService) Start(ctx context.Context, lotID int) (*EntryWorkflowView, error) {
	lot, err := s.dir.FindLotByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("lỗi kiểm tra bãi đỗ xe: %w", err)
	}
	if !lot.AcceptsEntry() {
		return nil, ErrLotUnavailable
	}

	id := uuid.NewString()
	lease, err := s.camera.Acquire(id)
	if err != nil {
		return nil, err
	}

	wf := &EntryWorkflow{
		ID:        id,
		LotID:     lotID,
		state:     EntryStateCapturing,
		lot:       lot,
		lease:     lease,
		updatedAt: time.Now(),
	}

	s.mu.Lock()
	s.workflows[id] = wf
	s.mu.Unlock()

	log.Printf("EntryWorkflow %s: bắt đầu cho bãi %d ('%s')", id, lotID, lot.Name)
	return wf.view(), nil
}

func (s *EntryWorkflowService) find(id string) (*EntryWorkflow, error) {
	s.mu.RLock()
	wf, ok := s.workflows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrWorkflowNotFound
	}
	return wf, nil
}

func (s *EntryWorkflowService) Get(id string) (*EntryWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.view(), nil
}

// CaptureAndRecognize chụp một khung hình rồi gọi dịch vụ nhận dạng.
// Nhận dạng thất bại (lỗi dịch vụ hoặc kết quả rỗng) đưa quy trình về bước
// chụp và hủy ảnh: không bao giờ sang bước xác nhận với biển số trống.
func (s *EntryWorkflowService) CaptureAndRecognize(ctx context.Context, id string) (*EntryWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}

	wf.mu.Lock()
	switch wf.state {
	case EntryStateCapturing:
	case EntryStateRecognizing, EntryStateSubmitting:
		wf.mu.Unlock()
		return nil, ErrRequestInFlight
	default:
		wf.mu.Unlock()
		return nil, ErrInvalidState
	}
	wf.state = EntryStateRecognizing
	wf.updatedAt = time.Now()
	lease := wf.lease
	wf.mu.Unlock()

	frame, err := lease.Snapshot(ctx)
	if err != nil {
		wf.mu.Lock()
		wf.state = EntryStateCapturing
		wf.notice = "Không chụp được ảnh từ camera"
		wf.updatedAt = time.Now()
		wf.mu.Unlock()
		return nil, err
	}

	result, err := s.recognizer.Recognize(ctx, frame)
	if err == nil && (result == nil || strings.TrimSpace(result.Plate) == "") {
		// Kết quả rỗng hoặc toàn khoảng trắng không phải là một biển số.
		err = ErrPlateNotRecognized
	}

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.updatedAt = time.Now()
	if err != nil {
		// Lỗi dịch vụ và "không thấy biển số" đi chung một đường:
		// operator phải chụp lại.
		wf.state = EntryStateCapturing
		wf.image = nil
		wf.suggestedPlate = ""
		wf.notice = ErrPlateNotRecognized.Error()
		log.Printf("EntryWorkflow %s: nhận dạng thất bại: %v", id, err)
		if errors.Is(err, ErrPlateNotRecognized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPlateNotRecognized, err)
	}

	wf.image = frame
	wf.suggestedPlate = result.Plate
	wf.notice = ""
	wf.state = EntryStateConfirming
	log.Printf("EntryWorkflow %s: nhận dạng được biển số '%s' (%.2f)", id, result.Plate, result.Confidence)
	return wf.view(), nil
}

// Confirm nhận biển số (đã có thể bị operator sửa) và loại xe, sinh code
// gợi ý rồi gửi yêu cầu tạo phiên lên Directory. Trong lúc gửi, quy trình
// bị khóa ở trạng thái submitting nên bấm gửi lần nữa không tạo request mới.
func (s *EntryWorkflowService) Confirm(ctx context.Context, id string, dto domain.EntryConfirmDTO) (*EntryWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}

	plate := strings.TrimSpace(dto.LicensePlate)

	wf.mu.Lock()
	switch wf.state {
	case EntryStateConfirming:
	case EntryStateSubmitting, EntryStateRecognizing:
		wf.mu.Unlock()
		return nil, ErrRequestInFlight
	default:
		wf.mu.Unlock()
		return nil, ErrInvalidState
	}
	if len(wf.image) == 0 {
		wf.mu.Unlock()
		return nil, ErrMissingImage
	}
	if plate == "" {
		wf.mu.Unlock()
		return nil, fmt.Errorf("%w: biển số không được để trống", ErrValidation)
	}
	if !wf.lot.AcceptsVehicleType(dto.VehicleType) {
		wf.mu.Unlock()
		return nil, fmt.Errorf("%w: loại xe '%s' không thuộc bãi này", ErrValidation, dto.VehicleType)
	}
	wf.state = EntryStateSubmitting
	wf.updatedAt = time.Now()
	image := wf.image
	wf.mu.Unlock()

	session, err := s.submitEntry(ctx, wf.LotID, plate, dto.VehicleType, image)

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.updatedAt = time.Now()
	if err != nil {
		// Thất bại nào cũng quay lại bước xác nhận và giữ nguyên ảnh,
		// để operator sửa rồi gửi lại mà không phải chụp lại.
		wf.state = EntryStateConfirming
		if errors.Is(err, directory.ErrDuplicateActiveSession) {
			wf.notice = directory.ErrDuplicateActiveSession.Error()
		} else {
			wf.notice = "Không thể tạo phiên gửi xe, vui lòng thử lại"
		}
		log.Printf("EntryWorkflow %s: gửi thất bại: %v", id, err)
		return nil, err
	}

	wf.session = session
	wf.image = nil
	wf.notice = ""
	wf.state = EntryStateSucceeded
	wf.lease.Release()

	log.Printf("EntryWorkflow %s: đã tạo phiên ID %d, code chính thức '%s' cho xe '%s'",
		id, session.ID, session.Code, session.LicensePlate)

	if s.notifier != nil {
		s.notifier.NotifySessionEvent(domain.SessionEventNotification{
			Type:      domain.EventEntryCreated,
			LotID:     session.LotID,
			Code:      session.Code,
			Session:   session,
			Timestamp: time.Now().UTC(),
		})
	}
	return wf.view(), nil
}

func (s *EntryWorkflowService) submitEntry(ctx context.Context, lotID int, plate, vehicleType string, image []byte) (*domain.ParkingSession, error) {
	active, err := s.dir.ListActiveSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy danh sách phiên đang hoạt động: %w", err)
	}
	codes := make([]string, 0, len(active))
	for _, sess := range active {
		codes = append(codes, sess.Code)
	}
	code, err := s.codes.Generate(ActiveCodeSet(codes))
	if err != nil {
		return nil, err
	}

	return s.dir.CreateEntry(ctx, directory.EntryRequest{
		LotID:        lotID,
		LicensePlate: plate,
		Code:         code,
		VehicleType:  vehicleType,
		Image:        image,
	})
}

// Cancel hủy quy trình và trả camera. Không hủy được khi đang chờ Directory
// trả lời: phải đợi kết quả của request đang bay.
func (s *EntryWorkflowService) Cancel(id string) error {
	wf, err := s.find(id)
	if err != nil {
		return err
	}

	wf.mu.Lock()
	if wf.state == EntryStateSubmitting || wf.state == EntryStateRecognizing {
		wf.mu.Unlock()
		return ErrRequestInFlight
	}
	wf.image = nil
	wf.lease.Release()
	wf.mu.Unlock()

	s.mu.Lock()
	delete(s.workflows, id)
	s.mu.Unlock()

	log.Printf("EntryWorkflow %s: đã hủy", id)
	return nil
}

// ExpireIdle hủy các quy trình bị bỏ dở (operator đóng trình duyệt giữa
// chừng) để camera không bị giữ vô thời hạn.
func (s *EntryWorkflowService) ExpireIdle(olderThan time.Duration) int {
	now := time.Now()
	var expired []string

	s.mu.Lock()
	for id, wf := range s.workflows {
		wf.mu.Lock()
		idle := now.Sub(wf.updatedAt) > olderThan
		busy := wf.state == EntryStateSubmitting || wf.state == EntryStateRecognizing
		if idle && !busy {
			wf.image = nil
			wf.lease.Release()
			expired = append(expired, id)
		}
		wf.mu.Unlock()
	}
	for _, id := range expired {
		delete(s.workflows, id)
	}
	s.mu.Unlock()

	return len(expired)
}
