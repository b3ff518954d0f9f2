package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

// Handlers groups the HTTP layer for route registration.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Car          *CarHandler
	Session      *SessionHandler
	Inventory    *InventoryHandler
	Inspection   *InspectionHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Client:       NewClientHandler(svc.Client, svc.User),
		Car:          NewCarHandler(svc.Car),
		Session:      NewSessionHandler(svc.Session, svc.Media),
		Inventory:    NewInventoryHandler(svc.Inventory),
		Inspection:   NewInspectionHandler(svc.Inspection),
		Notification: NewNotificationHandler(svc.Notification),
		Report:       NewReportHandler(svc.Report, svc.Auth),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps a page of items.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondErr maps a service error to the envelope: missing rows become 404,
// input rejections 400, everything else a 500.
func respondErr(c *gin.Context, err error) {
	if err == repository.ErrNotFound {
		NotFound(c, "Resource not found")
		return
	}

	msg := err.Error()
	switch {
	case strings.HasSuffix(msg, "not found"):
		NotFound(c, msg)
	case strings.HasPrefix(msg, "invalid"),
		strings.Contains(msg, "already"),
		strings.Contains(msg, "cannot"),
		strings.Contains(msg, "below zero"):
		BadRequest(c, msg)
	default:
		InternalError(c, msg)
	}
}

// GetUserID returns the authenticated user id from the request context.
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetOrgID returns the authenticated organization id from the token.
func GetOrgID(c *gin.Context) string {
	return c.GetString("organization_id")
}

// GetRole returns the authenticated role from the token.
func GetRole(c *gin.Context) string {
	return c.GetString("role")
}

// GetPagination reads page/page_size query params with defaults.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
