package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/tablesession-api/models"
	"gorm.io/gorm"
)

type ReportService struct {
	store
}

func NewReportService(db *gorm.DB, timeout time.Duration) *ReportService {
	return &ReportService{store: newStore(db, timeout)}
}

type DailySummary struct {
	Date              string                     `json:"date"`
	TotalSessions     int                        `json:"total_sessions"`
	TotalOrders       int                        `json:"total_orders"`
	TotalRevenue      decimal.Decimal            `json:"total_revenue"`
	AverageOrderValue decimal.Decimal            `json:"average_order_value"`
	OrdersByStatus    map[models.OrderStatus]int `json:"orders_by_status"`
	Sessions          []models.TableSession      `json:"-"`
}

// DayBounds returns the first and last millisecond of day in its location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
	return start, end
}

// DailySummary aggregates the sessions created on day. Revenue comes from
// session totals, so sessions still open count for zero.
func (s *ReportService) DailySummary(ctx context.Context, actor Actor, day time.Time) (*DailySummary, error) {
	if err := authorize(actor, OpReportSummary); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	start, end := DayBounds(day)
	var sessions []models.TableSession
	if err := db.Preload("Orders").
		Where("company_id = ? AND created_at BETWEEN ? AND ?", actor.CompanyID, start.In(time.Local), end.In(time.Local)).
		Order("created_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	return summarize(start.Format("2006-01-02"), sessions), nil
}

func summarize(date string, sessions []models.TableSession) *DailySummary {
	summary := &DailySummary{
		Date:              date,
		TotalSessions:     len(sessions),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		OrdersByStatus:    make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		Sessions:          sessions,
	}
	for _, st := range models.OrderStatuses {
		summary.OrdersByStatus[st] = 0
	}

	for _, session := range sessions {
		summary.TotalRevenue = summary.TotalRevenue.Add(session.TotalAmount)
		for _, o := range session.Orders {
			summary.TotalOrders++
			summary.OrdersByStatus[o.Status]++
		}
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalOrders))).
			Round(2)
	}
	return summary
}

// ListOrders returns sessions with their orders. The range applies only when
// both bounds are given. Bounds are compared in server local time, the zone
// timestamps are stored in.
func (s *ReportService) ListOrders(ctx context.Context, actor Actor, start, end *time.Time) ([]models.TableSession, error) {
	if err := authorize(actor, OpReportOrders); err != nil {
		return nil, err
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, invalidInput("start date must not be after end date")
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	q := withOrders(db).Where("company_id = ?", actor.CompanyID)
	if start != nil && end != nil {
		q = q.Where("created_at BETWEEN ? AND ?", start.In(time.Local), end.In(time.Local))
	}

	sessions := []models.TableSession{}
	if err := q.Order("created_at ASC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return sessions, nil
}
