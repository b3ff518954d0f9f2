package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type ClientHandler struct {
	svc     *service.ClientService
	userSvc *service.UserService
}

func NewClientHandler(svc *service.ClientService, userSvc *service.UserService) *ClientHandler {
	return &ClientHandler{svc: svc, userSvc: userSvc}
}

func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.ClientListParams{
		OrganizationID: GetOrgID(c),
		Search:         c.Query("search"),
		ActiveOnly:     c.Query("active") == "true",
		Page:           page,
		Size:           pageSize,
	}

	clients, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      clients,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req service.CreateClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.svc.Create(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req service.UpdateClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetOrgID(c), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}

// Intake registers a walk-in: client, car, and a scheduled session in one
// request.
func (h *ClientHandler) Intake(c *gin.Context) {
	var req service.IntakeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Intake(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, result)
}
