package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestClient_CreateEntry(t *testing.T) {
	var gotAuth, gotPath string
	var gotMetadata map[string]string
	var gotImage []byte

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("metadata")), &gotMetadata))

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotImage, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.ParkingSession{
			ID:           7,
			Code:         "905",
			LotID:        1,
			LicensePlate: "30A-12345",
			Status:       domain.SessionActive,
		})
	})
	defer server.Close()

	ctx := directory.WithToken(context.Background(), "token-abc")
	session, err := client.CreateEntry(ctx, directory.EntryRequest{
		LotID:        1,
		LicensePlate: "30A-12345",
		Code:         "417",
		VehicleType:  "Ô tô",
		Image:        []byte("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "/parking/entry/1", gotPath)
	assert.Equal(t, "30A-12345", gotMetadata["license_plate"])
	assert.Equal(t, "417", gotMetadata["code"])
	assert.Equal(t, "Ô tô", gotMetadata["vehicle_type"])
	assert.Equal(t, []byte("jpeg-bytes"), gotImage)

	// Code trong response là code chính thức do Directory cấp.
	assert.Equal(t, "905", session.Code)
	assert.Equal(t, 7, session.ID)
}

func TestClient_CreateEntryDuplicate(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Xe đã có phiên gửi xe đang hoạt động"})
	})
	defer server.Close()

	_, err := client.CreateEntry(context.Background(), directory.EntryRequest{
		LotID: 1, LicensePlate: "30A-12345", Code: "417", VehicleType: "Ô tô", Image: []byte("x"),
	})
	assert.ErrorIs(t, err, directory.ErrDuplicateActiveSession)
}

func TestClient_FindSessionByCode(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    interface{}
		wantErr error
	}{
		{"tìm thấy", http.StatusOK, domain.ParkingSession{ID: 12, Code: "417"}, nil},
		{"không tồn tại", http.StatusNotFound, map[string]string{"error": "not found"}, directory.ErrNotFound},
		{"token hết hạn", http.StatusUnauthorized, map[string]string{"error": "unauthorized"}, directory.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})
			defer server.Close()

			session, err := client.FindSessionByCode(context.Background(), "417")
			assert.Equal(t, "/parking/session/417", gotPath)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12, session.ID)
		})
	}
}

func TestClient_CreateExit(t *testing.T) {
	var gotMetadata map[string]string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parking/exit", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("metadata")), &gotMetadata))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.ParkingSession{
			ID: 12, Code: "417", Status: domain.SessionCompleted,
		})
	})
	defer server.Close()

	session, err := client.CreateExit(context.Background(), directory.ExitRequest{
		Code:         "417",
		LicensePlate: "30A-12345",
		Image:        []byte("exit-jpeg"),
	})
	require.NoError(t, err)

	assert.Equal(t, "417", gotMetadata["code"])
	assert.Equal(t, "30A-12345", gotMetadata["license_plate"])
	assert.Equal(t, domain.SessionCompleted, session.Status)
}

func TestClient_ListActiveSessions(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parking/entries/active", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.ParkingSession{
			{ID: 1, Code: "417"},
			{ID: 2, Code: "905"},
		})
	})
	defer server.Close()

	sessions, err := client.ListActiveSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "417", sessions[0].Code)
}

func TestClient_FindSessionsQuery(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.ParkingSession{})
	})
	defer server.Close()

	lotID := 3
	status := "COMPLETED"
	from := "2026-08-01"
	_, err := client.FindSessions(context.Background(), domain.SessionFilterDTO{
		LotID:  &lotID,
		Status: &status,
		From:   &from,
	})
	require.NoError(t, err)
	assert.Equal(t, "from=2026-08-01&lotId=3&status=COMPLETED", gotQuery)
}

func TestClient_Login(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var dto domain.LoginUserDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
		require.Equal(t, "operator1", dto.Username)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.AuthResponseDTO{Token: "jwt-token", Username: "operator1", Role: "operator"})
	})
	defer server.Close()

	auth, err := client.Login(context.Background(), domain.LoginUserDTO{
		Username: "operator1", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", auth.Token)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "backend đang bảo trì"})
	})
	defer server.Close()

	_, err := client.ListLots(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend đang bảo trì")
}
