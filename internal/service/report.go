package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

type DailyRevenue struct {
	Date     string  `json:"date"` // YYYY-MM-DD theo exit_time
	Revenue  float64 `json:"revenue"`
	Sessions int     `json:"sessions"`
}

type RevenueReport struct {
	TotalRevenue  float64            `json:"total_revenue"`
	SessionCount  int                `json:"session_count"`
	ByDay         []DailyRevenue     `json:"by_day"`
	ByVehicleType map[string]float64 `json:"by_vehicle_type"`
}

// ReportService tổng hợp doanh thu phía client từ các phiên COMPLETED mà
// Directory trả về. Biểu phí và cách tính phí vẫn thuộc về backend; ở đây
// chỉ cộng dồn total_cost đã được tính sẵn.
type ReportService struct {
	dir directory.SessionDirectory
}

func NewReportService(dir directory.SessionDirectory) *ReportService {
	return &ReportService{dir: dir}
}

func (s *ReportService) Revenue(ctx context.Context, filter domain.SessionFilterDTO) (*RevenueReport, error) {
	completed := string(domain.SessionCompleted)
	filter.Status = &completed

	sessions, err := s.dir.FindSessions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy danh sách phiên đã hoàn tất: %w", err)
	}

	report := &RevenueReport{ByVehicleType: make(map[string]float64)}
	byDay := make(map[string]*DailyRevenue)

	for i := range sessions {
		sess := &sessions[i]
		if sess.Status != domain.SessionCompleted || !sess.TotalCost.Valid || !sess.ExitTime.Valid {
			continue
		}
		cost := sess.TotalCost.Float64
		report.TotalRevenue += cost
		report.SessionCount++
		report.ByVehicleType[sess.VehicleType] += cost

		day := sess.ExitTime.Time.UTC().Format("2006-01-02")
		if entry, ok := byDay[day]; ok {
			entry.Revenue += cost
			entry.Sessions++
		} else {
			byDay[day] = &DailyRevenue{Date: day, Revenue: cost, Sessions: 1}
		}
	}

	for _, entry := range byDay {
		report.ByDay = append(report.ByDay, *entry)
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Date < report.ByDay[j].Date
	})
	return report, nil
}
