package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("camera không khả dụng")

// Device là camera IP tại cổng, trả về một khung hình tĩnh qua HTTP
// (endpoint snapshot kiểu Hikvision/ONVIF, basic auth).
type Device struct {
	snapshotURL string
	username    string
	password    string
	client      *http.Client
}

func NewDevice(snapshotURL, username, password string, timeout time.Duration) *Device {
	return &Device{
		snapshotURL: snapshotURL,
		username:    username,
		password:    password,
		client:      &http.Client{Timeout: timeout},
	}
}

// Snapshot lấy đúng một khung hình ở độ phân giải gốc của camera.
// Body rỗng hoặc content-type không phải ảnh đều coi là camera lỗi.
func (d *Device) Snapshot(ctx context.Context) ([]byte, error) {
	if d.snapshotURL == "" {
		return nil, fmt.Errorf("%w: chưa cấu hình CAMERA_SNAPSHOT_URL", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.snapshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if d.username != "" {
		req.SetBasicAuth(d.username, d.password)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: camera trả về mã %d", ErrUnavailable, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: content-type '%s' không phải ảnh", ErrUnavailable, ct)
	}

	frame, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: lỗi đọc ảnh: %v", ErrUnavailable, err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: camera trả về ảnh rỗng", ErrUnavailable)
	}
	return frame, nil
}
