package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterOrganization signs up a new shop with its first admin account.
func (h *AuthHandler) RegisterOrganization(c *gin.Context) {
	var req service.RegisterOrganizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, tokens, err := h.svc.RegisterOrganization(c.Request.Context(), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Unauthorized(c, err.Error())
		return
	}

	Success(c, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tokens, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Unauthorized(c, err.Error())
		return
	}

	Success(c, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// body is optional; logout always succeeds
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// CloseOrganization permanently deletes the caller's organization with all
// of its data. There is no undo.
func (h *AuthHandler) CloseOrganization(c *gin.Context) {
	if err := h.svc.CloseOrganization(c.Request.Context(), GetOrgID(c)); err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}

// Me returns the current user with the capability list for the UI.
func (h *AuthHandler) Me(c *gin.Context) {
	user, perms, err := h.svc.CurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	Success(c, gin.H{
		"user":        user,
		"permissions": perms,
	})
}
