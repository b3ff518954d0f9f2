package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List returns the part list plus the aggregate stats block shown above it.
func (h *InventoryHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.InventoryListParams{
		OrganizationID: GetOrgID(c),
		Category:       c.Query("category"),
		LowStock:       c.Query("low_stock") == "true",
		Search:         c.Query("search"),
		SortBy:         c.Query("sort_by"),
		SortDesc:       c.Query("sort_desc") == "true",
		Page:           page,
		Size:           pageSize,
	}

	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), GetOrgID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"items":      items,
		"stats":      stats,
		"pagination": NewPagination(page, pageSize, total),
	})
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), GetOrgID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, item)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateInventoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Adjust(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), req)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "Part not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	var req service.RestockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.svc.Restock(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), req)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "Part not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Transactions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	txns, total, err := h.svc.Transactions(c.Request.Context(), GetOrgID(c), c.Query("inventory_id"), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      txns,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	items, err := h.svc.LowStock(c.Request.Context(), GetOrgID(c), limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}

func (h *InventoryHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context(), GetOrgID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, categories)
}
