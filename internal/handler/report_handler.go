package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/service"
)

type ReportHandler struct {
	svc     *service.ReportService
	authSvc *service.AuthService
}

func NewReportHandler(svc *service.ReportService, authSvc *service.AuthService) *ReportHandler {
	return &ReportHandler{svc: svc, authSvc: authSvc}
}

// Dashboard returns the landing-page payload.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	data, err := h.svc.Dashboard(c.Request.Context(), GetOrgID(c), GetUserID(c), GetRole(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, data)
}

// Get returns the revenue report for ?period=today|month|year or
// ?month=YYYY-MM.
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.svc.Build(c.Request.Context(), GetOrgID(c), c.Query("period"), c.Query("month"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, report)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	report, err := h.svc.Build(c.Request.Context(), GetOrgID(c), c.Query("period"), c.Query("month"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	data, err := h.svc.ExportCSV(report)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("report_%s_%s.csv", report.Period, time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *ReportHandler) ExportExcel(c *gin.Context) {
	report, err := h.svc.Build(c.Request.Context(), GetOrgID(c), c.Query("period"), c.Query("month"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	f, err := h.svc.ExportExcel(report)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("report_%s_%s.xlsx", report.Period, time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write workbook: "+err.Error())
	}
}

func (h *ReportHandler) ExportPDF(c *gin.Context) {
	report, err := h.svc.Build(c.Request.Context(), GetOrgID(c), c.Query("period"), c.Query("month"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	orgName := ""
	if user, _, err := h.authSvc.CurrentUser(c.Request.Context(), GetUserID(c)); err == nil && user.Organization != nil {
		orgName = user.Organization.Name
	}

	data, err := h.svc.ExportPDF(report, orgName)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("report_%s_%s.pdf", report.Period, time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "application/pdf", data)
}
