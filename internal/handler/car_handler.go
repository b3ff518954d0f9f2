package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type CarHandler struct {
	svc *service.CarService
}

func NewCarHandler(svc *service.CarService) *CarHandler {
	return &CarHandler{svc: svc}
}

func (h *CarHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.CarListParams{
		OrganizationID: GetOrgID(c),
		ClientID:       c.Query("client_id"),
		Search:         c.Query("search"),
		Page:           page,
		Size:           pageSize,
	}

	cars, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      cars,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *CarHandler) Create(c *gin.Context) {
	var req service.CreateCarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ClientID == "" {
		BadRequest(c, "client_id is required")
		return
	}

	car, err := h.svc.Create(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, car)
}

func (h *CarHandler) Get(c *gin.Context) {
	car, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, car)
}

func (h *CarHandler) Update(c *gin.Context) {
	var req service.UpdateCarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	car, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, car)
}
