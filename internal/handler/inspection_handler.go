package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

func (h *InspectionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.InspectionListParams{
		OrganizationID: GetOrgID(c),
		Status:         c.Query("status"),
		Page:           page,
		Size:           pageSize,
	}
	if GetRole(c) == entity.RoleTechnician {
		params.InspectorID = GetUserID(c)
	} else if iid := c.Query("inspector_id"); iid != "" {
		params.InspectorID = iid
	}

	inspections, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      inspections,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inspection, err := h.svc.Create(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, inspection)
}

func (h *InspectionHandler) Get(c *gin.Context) {
	inspection, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, inspection)
}

func (h *InspectionHandler) Update(c *gin.Context) {
	var req service.UpdateInspectionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inspection, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, inspection)
}

func (h *InspectionHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inspection, err := h.svc.UpdateStatus(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req.Status)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "Inspection not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, inspection)
}

// Approve records the client's sign-off on the inspection findings.
func (h *InspectionHandler) Approve(c *gin.Context) {
	inspection, err := h.svc.Approve(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, inspection)
}

func (h *InspectionHandler) AddItem(c *gin.Context) {
	var req service.InspectionItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "Inspection not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, item)
}

func (h *InspectionHandler) UpdateItem(c *gin.Context) {
	var req service.InspectionItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), GetOrgID(c), c.Param("id"), c.Param("itemId"), GetUserID(c), GetRole(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, item)
}

func (h *InspectionHandler) DeleteItem(c *gin.Context) {
	err := h.svc.DeleteItem(c.Request.Context(), GetOrgID(c), c.Param("id"), c.Param("itemId"), GetUserID(c), GetRole(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}
