package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

type ExitState string

const (
	ExitStateAwaitingLookup ExitState = "awaiting_lookup"
	ExitStateLookingUp      ExitState = "looking_up"
	ExitStateCapturing      ExitState = "capturing"
	ExitStateSnapshotting   ExitState = "snapshotting"
	ExitStateConfirming     ExitState = "confirming"
	ExitStateSubmitting     ExitState = "submitting"
	ExitStateSucceeded      ExitState = "succeeded"
)

// ExitWorkflow là một lượt cho xe ra: tra cứu theo code + biển số → chụp ảnh
// ra (bắt buộc) → xác nhận → gửi lên Directory để kết thúc phiên và tính phí.
type ExitWorkflow struct {
	ID string

	mu        sync.Mutex
	state     ExitState
	code      string
	plate     string
	matched   *domain.ParkingSession
	image     []byte
	notice    string
	completed *domain.ParkingSession
	lease     CameraLease
	updatedAt time.Time
}

type ExitWorkflowView struct {
	ID       string    `json:"id"`
	State    ExitState `json:"state"`
	HasImage bool      `json:"has_image"`
	Notice   string    `json:"notice,omitempty"`

	// Thông tin phiên đã khớp, chỉ có sau khi tra cứu thành công.
	Matched *domain.ParkingSession `json:"matched,omitempty"`

	// Phiên đã hoàn tất: có exit_time, total_cost và cả hai ảnh vào/ra
	// để hiển thị cạnh nhau.
	Completed *domain.ParkingSession `json:"completed,omitempty"`
}

func (w *ExitWorkflow) view() *ExitWorkflowView {
	return &ExitWorkflowView{
		ID:        w.ID,
		State:     w.state,
		HasImage:  len(w.image) > 0,
		Notice:    w.notice,
		Matched:   w.matched,
		Completed: w.completed,
	}
}

type ExitWorkflowService struct {
	dir      directory.SessionDirectory
	camera   CameraGate
	notifier SessionNotifier

	mu        sync.RWMutex
	workflows map[string]*ExitWorkflow
}

func NewExitWorkflowService(dir directory.SessionDirectory, camera CameraGate, notifier SessionNotifier) *ExitWorkflowService {
	return &ExitWorkflowService{
		dir:       dir,
		camera:    camera,
		notifier:  notifier,
		workflows: make(map[string]*ExitWorkflow),
	}
}

func (s *ExitWorkflowService) Start() *ExitWorkflowView {
	wf := &ExitWorkflow{
		ID:        uuid.NewString(),
		state:     ExitStateAwaitingLookup,
		updatedAt: time.Now(),
	}
	s.mu.Lock()
	s.workflows[wf.ID] = wf
	s.mu.Unlock()

	log.Printf("ExitWorkflow %s: bắt đầu", wf.ID)
	return wf.view()
}

func (s *ExitWorkflowService) find(id string) (*ExitWorkflow, error) {
	s.mu.RLock()
	wf, ok := s.workflows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrWorkflowNotFound
	}
	return wf, nil
}

func (s *ExitWorkflowService) Get(id string) (*ExitWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.view(), nil
}

// Lookup tra phiên theo code rồi đối chiếu biển số operator cung cấp với
// biển số lưu trong phiên, so sánh tuyệt đối không chuẩn hóa. Sai biển số
// (hoặc sai code) trả về cùng một lỗi khớp, không bao giờ tiết lộ biển số
// thật đang lưu, tránh dò code.
func (s *ExitWorkflowService) Lookup(ctx context.Context, id string, dto domain.ExitLookupDTO) (*ExitWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if dto.Code == "" || dto.LicensePlate == "" {
		return nil, fmt.Errorf("%w: cần cả mã phiên và biển số", ErrValidation)
	}

	wf.mu.Lock()
	switch wf.state {
	case ExitStateAwaitingLookup:
	case ExitStateLookingUp, ExitStateSubmitting:
		wf.mu.Unlock()
		return nil, ErrRequestInFlight
	default:
		wf.mu.Unlock()
		return nil, ErrInvalidState
	}
	wf.state = ExitStateLookingUp
	wf.updatedAt = time.Now()
	wf.mu.Unlock()

	session, err := s.dir.FindSessionByCode(ctx, dto.Code)

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.updatedAt = time.Now()
	wf.state = ExitStateAwaitingLookup

	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			// Code không tồn tại và biển số sai trả cùng một thông điệp.
			wf.notice = ErrCodeMismatch.Error()
			return nil, ErrCodeMismatch
		}
		wf.notice = "Không tra cứu được phiên gửi xe, vui lòng thử lại"
		return nil, fmt.Errorf("lỗi tra cứu phiên: %w", err)
	}
	if session.Status == domain.SessionCompleted {
		wf.notice = ErrSessionCompleted.Error()
		return nil, ErrSessionCompleted
	}
	if session.LicensePlate != dto.LicensePlate {
		log.Printf("ExitWorkflow %s: biển số không khớp cho code '%s'", id, dto.Code)
		wf.notice = ErrCodeMismatch.Error()
		return nil, ErrCodeMismatch
	}

	lease, err := s.camera.Acquire(id)
	if err != nil {
		wf.notice = err.Error()
		return nil, err
	}

	wf.code = dto.Code
	wf.plate = dto.LicensePlate
	wf.matched = session
	wf.lease = lease
	wf.notice = ""
	wf.state = ExitStateCapturing
	log.Printf("ExitWorkflow %s: đã khớp phiên ID %d (code '%s')", id, session.ID, dto.Code)
	return wf.view(), nil
}

// Capture chụp ảnh xe lúc ra. Ảnh ra là bắt buộc: chưa có ảnh thì không
// sang được bước xác nhận.
func (s *ExitWorkflowService) Capture(ctx context.Context, id string) (*ExitWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}

	wf.mu.Lock()
	switch wf.state {
	case ExitStateCapturing:
	case ExitStateSnapshotting, ExitStateSubmitting:
		wf.mu.Unlock()
		return nil, ErrRequestInFlight
	default:
		wf.mu.Unlock()
		return nil, ErrInvalidState
	}
	wf.state = ExitStateSnapshotting
	wf.updatedAt = time.Now()
	lease := wf.lease
	wf.mu.Unlock()

	frame, err := lease.Snapshot(ctx)

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.updatedAt = time.Now()
	if err != nil {
		wf.state = ExitStateCapturing
		wf.notice = "Không chụp được ảnh từ camera"
		return nil, err
	}

	wf.image = frame
	wf.notice = ""
	wf.state = ExitStateConfirming
	return wf.view(), nil
}

// Confirm gửi yêu cầu kết thúc phiên. Thất bại giữ nguyên ảnh và ở lại bước
// xác nhận để operator gửi lại mà không phải chụp lại.
func (s *ExitWorkflowService) Confirm(ctx context.Context, id string) (*ExitWorkflowView, error) {
	wf, err := s.find(id)
	if err != nil {
		return nil, err
	}

	wf.mu.Lock()
	switch wf.state {
	case ExitStateConfirming:
	case ExitStateSubmitting, ExitStateSnapshotting:
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
	wf.state = ExitStateSubmitting
	wf.updatedAt = time.Now()
	req := directory.ExitRequest{
		Code:         wf.code,
		LicensePlate: wf.plate,
		Image:        wf.image,
	}
	wf.mu.Unlock()

	completed, err := s.dir.CreateExit(ctx, req)

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.updatedAt = time.Now()
	if err != nil {
		wf.state = ExitStateConfirming
		wf.notice = "Không thể kết thúc phiên gửi xe, vui lòng thử lại"
		log.Printf("ExitWorkflow %s: gửi thất bại: %v", id, err)
		return nil, err
	}

	wf.completed = completed
	wf.image = nil
	wf.notice = ""
	wf.state = ExitStateSucceeded
	wf.lease.Release()

	log.Printf("ExitWorkflow %s: phiên ID %d đã hoàn tất, phí %.2f",
		id, completed.ID, completed.TotalCost.Float64)

	if s.notifier != nil {
		s.notifier.NotifySessionEvent(domain.SessionEventNotification{
			Type:      domain.EventExitCompleted,
			LotID:     completed.LotID,
			Code:      completed.Code,
			Session:   completed,
			Timestamp: time.Now().UTC(),
		})
	}
	return wf.view(), nil
}

// Cancel hủy quy trình; camera (nếu đang giữ) được trả lại. Không hủy được
// khi đang chờ Directory trả lời.
func (s *ExitWorkflowService) Cancel(id string) error {
	wf, err := s.find(id)
	if err != nil {
		return err
	}

	wf.mu.Lock()
	if wf.state == ExitStateSubmitting || wf.state == ExitStateLookingUp || wf.state == ExitStateSnapshotting {
		wf.mu.Unlock()
		return ErrRequestInFlight
	}
	wf.image = nil
	if wf.lease != nil {
		wf.lease.Release()
	}
	wf.mu.Unlock()

	s.mu.Lock()
	delete(s.workflows, id)
	s.mu.Unlock()

	log.Printf("ExitWorkflow %s: đã hủy", id)
	return nil
}

func (s *ExitWorkflowService) ExpireIdle(olderThan time.Duration) int {
	now := time.Now()
	var expired []string

	s.mu.Lock()
	for id, wf := range s.workflows {
		wf.mu.Lock()
		idle := now.Sub(wf.updatedAt) > olderThan
		busy := wf.state == ExitStateSubmitting || wf.state == ExitStateLookingUp || wf.state == ExitStateSnapshotting
		if idle && !busy {
			wf.image = nil
			if wf.lease != nil {
				wf.lease.Release()
			}
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
