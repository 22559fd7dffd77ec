package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

// Client gọi Session Directory qua JSON/HTTPS REST, kèm bearer token lấy
// từ context của request operator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("DirectoryClient: lỗi tạo request: %w", err)
	}
	if token := directory.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// decodeError ánh xạ mã HTTP của Directory về các sentinel error của package
// directory; các lỗi còn lại giữ nguyên thông điệp mà backend trả về.
func (c *Client) decodeError(resp *http.Response) error {
	var errResp errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errResp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return directory.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return directory.ErrUnauthorized
	case http.StatusConflict:
		if errResp.Error != "" {
			return fmt.Errorf("%w: %s", directory.ErrDuplicateActiveSession, errResp.Error)
		}
		return directory.ErrDuplicateActiveSession
	}
	if errResp.Error != "" {
		return fmt.Errorf("Directory trả về lỗi (%d): %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("Directory trả về mã %d không mong đợi", resp.StatusCode)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("DirectoryClient: lỗi gọi %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("DirectoryClient: lỗi decode response %s: %w", req.URL.Path, err)
	}
	return nil
}

// multipartBody đóng gói metadata JSON và ảnh chụp thành một multipart body.
func multipartBody(metadata interface{}, image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", fmt.Errorf("lỗi marshal metadata: %w", err)
	}
	if err := writer.WriteField("metadata", string(metaJSON)); err != nil {
		return nil, "", fmt.Errorf("lỗi ghi metadata: %w", err)
	}

	part, err := writer.CreateFormFile("image", "capture.jpg")
	if err != nil {
		return nil, "", fmt.Errorf("lỗi tạo phần ảnh: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("lỗi ghi ảnh: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("lỗi đóng multipart: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// POST /parking/entry/{lotId}
func (c *Client) CreateEntry(ctx context.Context, req directory.EntryRequest) (*domain.ParkingSession, error) {
	metadata := map[string]string{
		"license_plate": req.LicensePlate,
		"code":          req.Code,
		"vehicle_type":  req.VehicleType,
	}
	body, contentType, err := multipartBody(metadata, req.Image)
	if err != nil {
		return nil, fmt.Errorf("DirectoryClient.CreateEntry: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/parking/entry/"+strconv.Itoa(req.LotID), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	session := &domain.ParkingSession{}
	if err := c.doJSON(httpReq, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GET /parking/session/{code}
func (c *Client) FindSessionByCode(ctx context.Context, code string) (*domain.ParkingSession, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/parking/session/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, err
	}
	session := &domain.ParkingSession{}
	if err := c.doJSON(req, session); err != nil {
		return nil, err
	}
	return session, nil
}

// POST /parking/exit
func (c *Client) CreateExit(ctx context.Context, req directory.ExitRequest) (*domain.ParkingSession, error) {
	metadata := map[string]string{
		"code":          req.Code,
		"license_plate": req.LicensePlate,
	}
	body, contentType, err := multipartBody(metadata, req.Image)
	if err != nil {
		return nil, fmt.Errorf("DirectoryClient.CreateExit: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/parking/exit", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	session := &domain.ParkingSession{}
	if err := c.doJSON(httpReq, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GET /parking/entries/active: dùng để lấy snapshot các code đang hoạt động
// cho bộ sinh code gợi ý.
func (c *Client) ListActiveSessions(ctx context.Context) ([]domain.ParkingSession, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/parking/entries/active", nil)
	if err != nil {
		return nil, err
	}
	var sessions []domain.ParkingSession
	if err := c.doJSON(req, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GET /parking/sessions?lotId=&status=&from=&to=
func (c *Client) FindSessions(ctx context.Context, filter domain.SessionFilterDTO) ([]domain.ParkingSession, error) {
	query := url.Values{}
	if filter.LotID != nil {
		query.Set("lotId", strconv.Itoa(*filter.LotID))
	}
	if filter.Status != nil {
		query.Set("status", *filter.Status)
	}
	if filter.From != nil {
		query.Set("from", *filter.From)
	}
	if filter.To != nil {
		query.Set("to", *filter.To)
	}

	path := "/parking/sessions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var sessions []domain.ParkingSession
	if err := c.doJSON(req, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GET /parking/lots/{id}
func (c *Client) FindLotByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/parking/lots/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	lot := &domain.ParkingLot{}
	if err := c.doJSON(req, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// GET /parking/lots
func (c *Client) ListLots(ctx context.Context) ([]domain.ParkingLot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/parking/lots", nil)
	if err != nil {
		return nil, err
	}
	var lots []domain.ParkingLot
	if err := c.doJSON(req, &lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// POST /auth/login: terminal không tự xác thực mật khẩu, chỉ chuyển tiếp.
func (c *Client) Login(ctx context.Context, dto domain.LoginUserDTO) (*domain.AuthResponseDTO, error) {
	payload, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("DirectoryClient.Login: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	auth := &domain.AuthResponseDTO{}
	if err := c.doJSON(req, auth); err != nil {
		return nil, err
	}
	return auth, nil
}
