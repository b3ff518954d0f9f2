package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService computes the dashboard and the revenue reports, and renders
// the report to CSV, XLSX, and PDF.
type ReportService struct {
	repos  *repository.Repositories
	cache  *Cache
	logger *zap.Logger
}

func NewReportService(repos *repository.Repositories, cache *Cache, logger *zap.Logger) *ReportService {
	return &ReportService{repos: repos, cache: cache, logger: logger}
}

// DashboardStats is the cacheable slow half of the dashboard.
type DashboardStats struct {
	SessionStatusCounts    map[string]int64            `json:"session_status_counts"`
	InspectionStatusCounts map[string]int64            `json:"inspection_status_counts"`
	AverageSessionCost     float64                     `json:"average_session_cost"`
	MonthlyRevenue         []repository.MonthRevenue   `json:"monthly_revenue"`
	Inventory              *repository.InventoryStats  `json:"inventory"`
}

// DashboardData is the full dashboard payload.
type DashboardData struct {
	CarsInGarage        int64              `json:"cars_in_garage"`
	ActiveSessions      int64              `json:"active_sessions"`
	PendingSessions     int64              `json:"pending_sessions"`
	CompletedToday      int64              `json:"completed_today"`
	RevenueToday        float64            `json:"revenue_today"`
	RevenueMonth        float64            `json:"revenue_month"`
	RecentSessions      []entity.Session   `json:"recent_sessions"`
	LowStockItems       []entity.Inventory `json:"low_stock_items"`
	UnreadNotifications int64              `json:"unread_notifications"`
	Stats               *DashboardStats    `json:"stats"`
}

// Dashboard assembles the landing page. Technicians get their own sessions
// in the recent list; the stats block is served from redis when warm.
func (s *ReportService) Dashboard(ctx context.Context, orgID, userID, role string) (*DashboardData, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)

	statusCounts, err := s.repos.Report.CountSessionsByStatus(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("session counts: %w", err)
	}

	completedToday, revenueToday, err := s.repos.Report.CompletedStats(ctx, orgID, todayStart, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("today stats: %w", err)
	}
	_, revenueMonth, err := s.repos.Report.CompletedStats(ctx, orgID, monthStart, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("month stats: %w", err)
	}

	technicianID := ""
	if role == entity.RoleTechnician {
		technicianID = userID
	}
	recent, err := s.repos.Session.Recent(ctx, orgID, technicianID, 5)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}

	lowStock, err := s.repos.Inventory.LowStock(ctx, orgID, 5)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	unread, err := s.repos.Notification.CountUnread(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("unread count: %w", err)
	}

	stats, err := s.dashboardStats(ctx, orgID, statusCounts, now)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		CarsInGarage:        statusCounts[entity.SessionScheduled] + statusCounts[entity.SessionInProgress],
		ActiveSessions:      statusCounts[entity.SessionInProgress],
		PendingSessions:     statusCounts[entity.SessionScheduled],
		CompletedToday:      completedToday,
		RevenueToday:        revenueToday,
		RevenueMonth:        revenueMonth,
		RecentSessions:      recent,
		LowStockItems:       lowStock,
		UnreadNotifications: unread,
		Stats:               stats,
	}, nil
}

func (s *ReportService) dashboardStats(ctx context.Context, orgID string, statusCounts map[string]int64, now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	if s.cache.GetDashboard(ctx, orgID, &stats) {
		return &stats, nil
	}

	inspectionCounts, err := s.repos.Inspection.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("inspection counts: %w", err)
	}
	avgCost, err := s.repos.Report.AverageCompletedCost(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("average cost: %w", err)
	}
	trend, err := s.repos.Report.MonthlyTrend(ctx, orgID, now, 12)
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	inventory, err := s.repos.Inventory.Stats(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("inventory stats: %w", err)
	}

	stats = DashboardStats{
		SessionStatusCounts:    statusCounts,
		InspectionStatusCounts: inspectionCounts,
		AverageSessionCost:     avgCost,
		MonthlyRevenue:         trend,
		Inventory:              inventory,
	}
	s.cache.SetDashboard(ctx, orgID, &stats)
	return &stats, nil
}

// Report is the revenue report over one window.
type Report struct {
	Period      string                       `json:"period"`
	From        time.Time                    `json:"from"`
	To          time.Time                    `json:"to"`
	Completed   int64                        `json:"completed_sessions"`
	Revenue     float64                      `json:"total_revenue"`
	AverageCost float64                      `json:"average_session_cost"`
	Statuses    map[string]int64             `json:"session_status_counts"`
	Services    []repository.ServiceStat     `json:"popular_services"`
	Technicians []repository.TechnicianStat  `json:"technician_performance"`
	Monthly     []repository.MonthRevenue    `json:"monthly_trend"`
}

// Window resolves period=today|month|year or month=YYYY-MM into bounds.
func Window(period, month string, now time.Time) (time.Time, time.Time, string, error) {
	if month != "" {
		from, err := time.ParseInLocation("2006-01", month, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, "", fmt.Errorf("invalid month %q, want YYYY-MM", month)
		}
		return from, from.AddDate(0, 1, 0), month, nil
	}
	switch period {
	case "", "month":
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0), "month", nil
	case "today":
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 0, 1), "today", nil
	case "year":
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(1, 0, 0), "year", nil
	}
	return time.Time{}, time.Time{}, "", fmt.Errorf("invalid period %q", period)
}

// Build computes the report for one window.
func (s *ReportService) Build(ctx context.Context, orgID, period, month string) (*Report, error) {
	now := time.Now()
	from, to, label, err := Window(period, month, now)
	if err != nil {
		return nil, err
	}

	completed, revenue, err := s.repos.Report.CompletedStats(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("completed stats: %w", err)
	}
	avgCost, err := s.repos.Report.AverageCompletedCost(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("average cost: %w", err)
	}
	statuses, err := s.repos.Report.CountSessionsByStatus(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	services, err := s.repos.Report.PopularServices(ctx, orgID, from, to, 10)
	if err != nil {
		return nil, fmt.Errorf("popular services: %w", err)
	}
	technicians, err := s.repos.Report.TechnicianPerformance(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("technician performance: %w", err)
	}
	monthly, err := s.repos.Report.MonthlyTrend(ctx, orgID, now, 12)
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}

	return &Report{
		Period:      label,
		From:        from,
		To:          to,
		Completed:   completed,
		Revenue:     revenue,
		AverageCost: avgCost,
		Statuses:    statuses,
		Services:    services,
		Technicians: technicians,
		Monthly:     monthly,
	}, nil
}

// ExportCSV renders the report as one flat CSV with section markers.
func (s *ReportService) ExportCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Section", "Name", "Count", "Revenue"},
		{"Revenue Summary", "Completed sessions", strconv.FormatInt(report.Completed, 10), money(report.Revenue)},
		{"Revenue Summary", "Average session cost", "", money(report.AverageCost)},
	}
	for status, count := range report.Statuses {
		rows = append(rows, []string{"Session Status", status, strconv.FormatInt(count, 10), ""})
	}
	for _, svc := range report.Services {
		rows = append(rows, []string{"Popular Services", svc.Title, strconv.FormatInt(svc.Count, 10), money(svc.Revenue)})
	}
	for _, tech := range report.Technicians {
		rows = append(rows, []string{"Technician Performance", tech.Name, strconv.FormatInt(tech.Completed, 10), money(tech.Revenue)})
	}
	for _, m := range report.Monthly {
		rows = append(rows, []string{"Monthly Trend", m.Month, strconv.FormatInt(m.Sessions, 10), money(m.Revenue)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportExcel renders the report as a workbook with one sheet per section.
func (s *ReportService) ExportExcel(report *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	writeHeader := func(sheet string, headers []string) {
		for i, h := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			cell := col + "1"
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, boldStyle)
		}
	}

	// Revenue Summary
	summary := "Revenue Summary"
	f.SetSheetName("Sheet1", summary)
	writeHeader(summary, []string{"Metric", "Value"})
	f.SetCellValue(summary, "A2", "Period")
	f.SetCellValue(summary, "B2", report.Period)
	f.SetCellValue(summary, "A3", "From")
	f.SetCellValue(summary, "B3", report.From.Format("2006-01-02"))
	f.SetCellValue(summary, "A4", "To")
	f.SetCellValue(summary, "B4", report.To.Format("2006-01-02"))
	f.SetCellValue(summary, "A5", "Completed sessions")
	f.SetCellValue(summary, "B5", report.Completed)
	f.SetCellValue(summary, "A6", "Total revenue")
	f.SetCellValue(summary, "B6", report.Revenue)
	f.SetCellValue(summary, "A7", "Average session cost")
	f.SetCellValue(summary, "B7", report.AverageCost)
	f.SetColWidth(summary, "A", "A", 24)
	f.SetColWidth(summary, "B", "B", 16)

	// Popular Services
	services := "Popular Services"
	f.NewSheet(services)
	writeHeader(services, []string{"Service", "Count", "Revenue"})
	for i, svc := range report.Services {
		row := i + 2
		f.SetCellValue(services, fmt.Sprintf("A%d", row), svc.Title)
		f.SetCellValue(services, fmt.Sprintf("B%d", row), svc.Count)
		f.SetCellValue(services, fmt.Sprintf("C%d", row), svc.Revenue)
	}
	f.SetColWidth(services, "A", "A", 32)

	// Technician Performance
	techs := "Technician Performance"
	f.NewSheet(techs)
	writeHeader(techs, []string{"Technician", "Completed", "Revenue"})
	for i, tech := range report.Technicians {
		row := i + 2
		f.SetCellValue(techs, fmt.Sprintf("A%d", row), tech.Name)
		f.SetCellValue(techs, fmt.Sprintf("B%d", row), tech.Completed)
		f.SetCellValue(techs, fmt.Sprintf("C%d", row), tech.Revenue)
	}
	f.SetColWidth(techs, "A", "A", 28)

	// Monthly Trend
	trend := "Monthly Trend"
	f.NewSheet(trend)
	writeHeader(trend, []string{"Month", "Sessions", "Revenue"})
	for i, m := range report.Monthly {
		row := i + 2
		f.SetCellValue(trend, fmt.Sprintf("A%d", row), m.Month)
		f.SetCellValue(trend, fmt.Sprintf("B%d", row), m.Sessions)
		f.SetCellValue(trend, fmt.Sprintf("C%d", row), m.Revenue)
	}

	return f, nil
}

// ExportPDF renders the report as a single-page summary document.
func (s *ReportService) ExportPDF(report *Report, orgName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Workshop Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, orgName)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s (%s to %s)",
		report.Period, report.From.Format("2006-01-02"), report.To.Format("2006-01-02")))
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
	}
	row3 := func(a, b, c string) {
		pdf.CellFormat(90, 6, a, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, b, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, c, "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	section("Revenue Summary")
	row3("Completed sessions", strconv.FormatInt(report.Completed, 10), "")
	row3("Total revenue", "", money(report.Revenue))
	row3("Average session cost", "", money(report.AverageCost))
	pdf.Ln(4)

	section("Popular Services")
	row3("Service", "Count", "Revenue")
	for _, svc := range report.Services {
		row3(svc.Title, strconv.FormatInt(svc.Count, 10), money(svc.Revenue))
	}
	pdf.Ln(4)

	section("Technician Performance")
	row3("Technician", "Completed", "Revenue")
	for _, tech := range report.Technicians {
		row3(tech.Name, strconv.FormatInt(tech.Completed, 10), money(tech.Revenue))
	}
	pdf.Ln(4)

	section("Monthly Trend")
	row3("Month", "Sessions", "Revenue")
	for _, m := range report.Monthly {
		row3(m.Month, strconv.FormatInt(m.Sessions, 10), money(m.Revenue))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
