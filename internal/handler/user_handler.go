package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), GetOrgID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, users)
}

// ListTechnicians serves the assignment dropdowns on session forms.
func (h *UserHandler) ListTechnicians(c *gin.Context) {
	users, err := h.svc.ListTechnicians(c.Request.Context(), GetOrgID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, user)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), GetOrgID(c), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}
