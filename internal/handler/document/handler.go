package document

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/document"
	"github.com/saudelog/agenda-api/pkg/errors"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *document.Service
}

func NewHandler(service *document.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments/:id/documents", h.Initiate)
	r.GET("/appointments/:id/documents", h.List)

	documents := r.Group("/documents")
	{
		documents.POST("/:id/confirm", h.Confirm)
		documents.GET("/:id/download", h.Download)
		documents.DELETE("/:id", h.Delete)
	}
}

// Initiate presigns upload URLs for a batch of files. Files are processed in
// order and failures are reported per file, so one rejected file never blocks
// the rest.
func (h *Handler) Initiate(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	results := h.service.InitiateBatch(c.Request.Context(), tenantID, appointmentID, req.Files)
	httputil.Success(c, gin.H{"uploads": results})
}

func (h *Handler) Confirm(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid document ID")
		return
	}

	var req model.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.Confirm(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, doc)
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	docs, err := h.service.ListByAppointment(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, docs)
}

func (h *Handler) Download(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid document ID")
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), tenantID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"url": url})
}

func (h *Handler) Delete(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid document ID")
		return
	}
	if c.Query("confirm") != "true" {
		httputil.BadRequest(c, "confirmation required: pass confirm=true")
		return
	}

	hard := c.Query("hard") == "true"
	if hard && c.GetString(middleware.ContextUserRole) != middleware.RoleAdmin {
		httputil.Error(c, errors.Forbidden("hard delete requires admin role"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id, hard); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"id": id, "hard": hard})
}
