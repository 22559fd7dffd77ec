package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

func completedSession(vehicleType string, cost float64, exitAt time.Time) domain.ParkingSession {
	return domain.ParkingSession{
		Status:      domain.SessionCompleted,
		VehicleType: vehicleType,
		TotalCost:   null.FloatFrom(cost),
		ExitTime:    null.TimeFrom(exitAt),
	}
}

func TestReportService_Revenue(t *testing.T) {
	day1 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 17, 30, 0, 0, time.UTC)

	var gotFilter domain.SessionFilterDTO
	dir := &fakeDirectory{
		findSessionsFn: func(ctx context.Context, filter domain.SessionFilterDTO) ([]domain.ParkingSession, error) {
			gotFilter = filter
			return []domain.ParkingSession{
				completedSession("Ô tô", 25000, day1),
				completedSession("Xe máy", 5000, day1),
				completedSession("Ô tô", 30000, day2),
				// Phiên ACTIVE lọt vào kết quả vẫn phải bị bỏ qua.
				{Status: domain.SessionActive, VehicleType: "Ô tô", TotalCost: null.FloatFrom(999)},
				// Phiên thiếu total_cost chưa tính được doanh thu.
				{Status: domain.SessionCompleted, VehicleType: "Xe máy", ExitTime: null.TimeFrom(day2)},
			}, nil
		},
	}
	svc := NewReportService(dir)

	report, err := svc.Revenue(context.Background(), domain.SessionFilterDTO{})
	require.NoError(t, err)

	// Báo cáo luôn ép filter status=COMPLETED bất kể đầu vào.
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, string(domain.SessionCompleted), *gotFilter.Status)

	assert.Equal(t, 60000.0, report.TotalRevenue)
	assert.Equal(t, 3, report.SessionCount)
	assert.Equal(t, 55000.0, report.ByVehicleType["Ô tô"])
	assert.Equal(t, 5000.0, report.ByVehicleType["Xe máy"])

	require.Len(t, report.ByDay, 2)
	assert.Equal(t, "2026-08-30", report.ByDay[0].Date)
	assert.Equal(t, 30000.0, report.ByDay[0].Revenue)
	assert.Equal(t, 2, report.ByDay[0].Sessions)
	assert.Equal(t, "2026-08-31", report.ByDay[1].Date)
	assert.Equal(t, 30000.0, report.ByDay[1].Revenue)
	assert.Equal(t, 1, report.ByDay[1].Sessions)
}

func TestReportService_DirectoryError(t *testing.T) {
	dir := &fakeDirectory{
		findSessionsFn: func(ctx context.Context, filter domain.SessionFilterDTO) ([]domain.ParkingSession, error) {
			return nil, errors.New("directory không phản hồi")
		},
	}
	svc := NewReportService(dir)

	_, err := svc.Revenue(context.Background(), domain.SessionFilterDTO{})
	assert.Error(t, err)
}
