package client

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/client"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *client.Service
}

func NewHandler(service *client.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clientes")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.Get)
		clients.GET("/:id/historico", h.History)
		clients.PATCH("/:id", h.Update)
		clients.PATCH("/:id/status", h.SetStatus)
		clients.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	cl, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, cl)
}

func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid client ID")
		return
	}

	cl, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, cl)
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	filters := &model.RegistryFilters{
		TenantID: tenantID,
		Status:   model.LifecycleStatus(c.Query("status")),
		Search:   c.Query("search"),
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.Pagination.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.Pagination.PageSize = n
		}
	}

	clients, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, clients, filters.Pagination.Page, filters.Pagination.PageSize, total)
}

// History lists the client's appointments, newest first.
func (h *Handler) History(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid client ID")
		return
	}

	var p model.Pagination
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.PageSize = n
		}
	}
	p.Normalize()

	appointments, total, err := h.service.History(c.Request.Context(), tenantID, id, p)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, appointments, p.Page, p.PageSize, total)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid client ID")
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	cl, err := h.service.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, cl)
}

func (h *Handler) SetStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid client ID")
		return
	}

	var req model.UpdateLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), tenantID, id, req.Status); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) Delete(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid client ID")
		return
	}
	if c.Query("confirm") != "true" {
		httputil.BadRequest(c, "confirmation required: pass confirm=true")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"id": id})
}
