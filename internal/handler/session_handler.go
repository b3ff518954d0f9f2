package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
)

type SessionHandler struct {
	svc   *service.SessionService
	media *service.MediaService
}

func NewSessionHandler(svc *service.SessionService, media *service.MediaService) *SessionHandler {
	return &SessionHandler{svc: svc, media: media}
}

func (h *SessionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.SessionListParams{
		OrganizationID: GetOrgID(c),
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		Page:           page,
		Size:           pageSize,
	}
	// technicians only list their own sessions
	if GetRole(c) == entity.RoleTechnician {
		params.TechnicianID = GetUserID(c)
	} else if tid := c.Query("technician_id"); tid != "" {
		params.TechnicianID = tid
	}

	sessions, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, ListResponse{
		Items:      sessions,
		Pagination: NewPagination(page, pageSize, total),
	})
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.svc.Create(c.Request.Context(), GetOrgID(c), GetUserID(c), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, session)
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.svc.Get(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, session)
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req service.UpdateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.svc.Update(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, session)
}

func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.svc.UpdateStatus(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req.Status)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "Session not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, session)
}

func (h *SessionHandler) AddJobCard(c *gin.Context) {
	var req service.JobItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	job, err := h.svc.AddJobCard(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c), GetRole(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Created(c, job)
}

func (h *SessionHandler) UpdateJobCard(c *gin.Context) {
	var req service.UpdateJobCardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	job, err := h.svc.UpdateJobCard(c.Request.Context(), GetOrgID(c), c.Param("id"), c.Param("jobId"), GetUserID(c), GetRole(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, job)
}

func (h *SessionHandler) DeleteJobCard(c *gin.Context) {
	err := h.svc.DeleteJobCard(c.Request.Context(), GetOrgID(c), c.Param("id"), c.Param("jobId"), GetUserID(c), GetRole(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, nil)
}

// UploadMedia accepts a multipart file and stores it in object storage.
func (h *SessionHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	media, err := h.media.Upload(c.Request.Context(), GetOrgID(c), c.Param("id"), GetUserID(c),
		header.Filename, contentType, header.Size, file)
	if err != nil {
		respondErr(c, err)
		return
	}
	Created(c, media)
}

func (h *SessionHandler) ListMedia(c *gin.Context) {
	media, err := h.media.List(c.Request.Context(), GetOrgID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	Success(c, media)
}

// DownloadMedia streams the stored object back to the caller.
func (h *SessionHandler) DownloadMedia(c *gin.Context) {
	object, media, err := h.media.Download(c.Request.Context(), GetOrgID(c), c.Param("id"), c.Param("mediaId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+media.FileName+"\"")
	contentType := media.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, object)
}
