package collector

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/collector"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *collector.Service
	cache   *middleware.ResponseCache
}

func NewHandler(service *collector.Service, cache *middleware.ResponseCache) *Handler {
	return &Handler{service: service, cache: cache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	collectors := r.Group("/coletadoras")
	{
		collectors.POST("", h.Create)
		collectors.GET("", h.List)
		collectors.GET("/ativas", h.cache.Cache(), h.ListActive)
		collectors.GET("/filter-options", h.cache.Cache(), h.FilterOptions)
		collectors.GET("/stats", h.Stats)
		collectors.GET("/:id", h.Get)
		collectors.PATCH("/:id", h.Update)
		collectors.PATCH("/:id/status", h.SetStatus)
		collectors.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	var req model.CreateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	col, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	h.cache.Flush()
	httputil.Created(c, col)
}

func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid collector ID")
		return
	}

	col, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, col)
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

	collectors, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, collectors, filters.Pagination.Page, filters.Pagination.PageSize, total)
}

func (h *Handler) ListActive(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	collectors, err := h.service.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, collectors)
}

func (h *Handler) FilterOptions(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	options, err := h.service.FilterOptions(c.Request.Context(), tenantID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, options)
}

func (h *Handler) Stats(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), tenantID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, stats)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid collector ID")
		return
	}

	var req model.UpdateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	col, err := h.service.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	h.cache.Flush()
	httputil.Success(c, col)
}

func (h *Handler) SetStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid collector ID")
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
	h.cache.Flush()
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
		httputil.BadRequest(c, "invalid collector ID")
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
	h.cache.Flush()
	httputil.Success(c, gin.H{"id": id})
}
