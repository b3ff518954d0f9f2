package repository

import (
	"context"
	"time"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

// ReportRepository holds the aggregate queries behind the dashboard and the
// report exports. All windows are half-open: from <= t < to.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CountSessionsByStatus returns session counts grouped by status.
func (r *ReportRepository) CountSessionsByStatus(ctx context.Context, orgID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Session{}).
		Select("status, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CompletedStats returns the count and summed actual cost of sessions
// completed inside the window.
func (r *ReportRepository) CompletedStats(ctx context.Context, orgID string, from, to time.Time) (int64, float64, error) {
	var row struct {
		Count   int64
		Revenue float64
	}
	err := r.db.WithContext(ctx).Model(&entity.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(actual_cost), 0) AS revenue").
		Where("organization_id = ? AND status = ? AND actual_end_time >= ? AND actual_end_time < ?",
			orgID, entity.SessionCompleted, from, to).
		Scan(&row).Error
	return row.Count, row.Revenue, err
}

// AverageCompletedCost returns the mean actual cost over all completed
// sessions of the organization.
func (r *ReportRepository) AverageCompletedCost(ctx context.Context, orgID string) (float64, error) {
	var row struct{ Avg float64 }
	err := r.db.WithContext(ctx).Model(&entity.Session{}).
		Select("COALESCE(AVG(actual_cost), 0) AS avg").
		Where("organization_id = ? AND status = ?", orgID, entity.SessionCompleted).
		Scan(&row).Error
	return row.Avg, err
}

// ServiceStat is one row of the popular-services report: job cards grouped
// by title with counts and summed parts+labor cost.
type ServiceStat struct {
	Title   string  `json:"title"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

func (r *ReportRepository) PopularServices(ctx context.Context, orgID string, from, to time.Time, limit int) ([]ServiceStat, error) {
	if limit <= 0 {
		limit = 10
	}
	var stats []ServiceStat
	err := r.db.WithContext(ctx).Model(&entity.JobCard{}).
		Select("job_cards.title AS title, COUNT(*) AS count, COALESCE(SUM(job_cards.parts_cost + job_cards.labor_cost), 0) AS revenue").
		Joins("JOIN sessions ON sessions.id = job_cards.session_id").
		Where("sessions.organization_id = ? AND job_cards.created_at >= ? AND job_cards.created_at < ?", orgID, from, to).
		Group("job_cards.title").
		Order("count DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

// TechnicianStat is one row of the technician-performance report.
type TechnicianStat struct {
	TechnicianID string  `json:"technician_id"`
	Name         string  `json:"name"`
	Completed    int64   `json:"completed"`
	Revenue      float64 `json:"revenue"`
}

func (r *ReportRepository) TechnicianPerformance(ctx context.Context, orgID string, from, to time.Time) ([]TechnicianStat, error) {
	var stats []TechnicianStat
	err := r.db.WithContext(ctx).Model(&entity.Session{}).
		Select("sessions.technician_id AS technician_id, users.first_name || ' ' || users.last_name AS name, COUNT(*) AS completed, COALESCE(SUM(sessions.actual_cost), 0) AS revenue").
		Joins("JOIN users ON users.id = sessions.technician_id").
		Where("sessions.organization_id = ? AND sessions.status = ? AND sessions.actual_end_time >= ? AND sessions.actual_end_time < ?",
			orgID, entity.SessionCompleted, from, to).
		Group("sessions.technician_id, users.first_name, users.last_name").
		Order("revenue DESC").
		Scan(&stats).Error
	return stats, err
}

// MonthRevenue is one point of the trailing twelve-month revenue series.
type MonthRevenue struct {
	Month    string  `json:"month"`
	Sessions int64   `json:"sessions"`
	Revenue  float64 `json:"revenue"`
}

// MonthlyTrend computes the trailing n-month revenue series ending at the
// month of ref. One aggregate query per month, matching the original
// reporting behavior.
func (r *ReportRepository) MonthlyTrend(ctx context.Context, orgID string, ref time.Time, months int) ([]MonthRevenue, error) {
	if months <= 0 {
		months = 12
	}
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	trend := make([]MonthRevenue, 0, months)
	for i := months - 1; i >= 0; i-- {
		from := start.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)
		count, revenue, err := r.CompletedStats(ctx, orgID, from, to)
		if err != nil {
			return nil, err
		}
		trend = append(trend, MonthRevenue{
			Month:    from.Format("2006-01"),
			Sessions: count,
			Revenue:  revenue,
		})
	}
	return trend, nil
}
