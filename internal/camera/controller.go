package camera

import (
	"context"
	"errors"
	"log"
	"sync"
)

var ErrBusy = errors.New("camera đang được một quy trình khác sử dụng")
var ErrReleased = errors.New("camera đã được giải phóng cho quy trình này")

// Snapshotter trừu tượng hóa thiết bị để test không cần camera thật.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// Controller giữ quyền sở hữu độc quyền trên camera: tại mỗi thời điểm chỉ
// một quy trình được cầm lease. Mọi đường thoát khỏi màn hình chụp đều phải
// gọi Release; Release nhiều lần là an toàn nhưng chỉ trả camera một lần.
type Controller struct {
	mu     sync.Mutex
	device Snapshotter
	holder string
}

func NewController(device Snapshotter) *Controller {
	return &Controller{device: device}
}

func (c *Controller) Acquire(holder string) (*Lease, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.holder != "" {
		return nil, ErrBusy
	}
	c.holder = holder
	log.Printf("Camera: quy trình '%s' đã giữ camera", holder)
	return &Lease{controller: c, holder: holder}, nil
}

// Holder trả về ID quy trình đang giữ camera, rỗng nếu camera rảnh.
func (c *Controller) Holder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holder
}

// Lease là quyền dùng camera của đúng một quy trình.
type Lease struct {
	controller *Controller
	holder     string

	mu       sync.Mutex
	released bool
}

// Snapshot chụp một khung hình. Gọi sau khi Release là lỗi lập trình và
// trả về ErrReleased ngay lập tức.
func (l *Lease) Snapshot(ctx context.Context) ([]byte, error) {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return nil, ErrReleased
	}
	l.mu.Unlock()
	return l.controller.device.Snapshot(ctx)
}

// Release trả camera về cho Controller. Idempotent: chỉ lần gọi đầu tiên
// có tác dụng.
func (l *Lease) Release() {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return
	}
	l.released = true
	l.mu.Unlock()

	l.controller.mu.Lock()
	if l.controller.holder == l.holder {
		l.controller.holder = ""
	}
	l.controller.mu.Unlock()
	log.Printf("Camera: quy trình '%s' đã trả camera", l.holder)
}
