package car

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/car"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *car.Service
	cache   *middleware.ResponseCache
}

func NewHandler(service *car.Service, cache *middleware.ResponseCache) *Handler {
	return &Handler{service: service, cache: cache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cars := r.Group("/carros")
	{
		cars.POST("", h.Create)
		cars.GET("", h.List)
		cars.GET("/ativos", h.cache.Cache(), h.ListActive)
		cars.GET("/filter-options", h.cache.Cache(), h.FilterOptions)
		cars.GET("/stats", h.Stats)
		cars.GET("/:id", h.Get)
		cars.PATCH("/:id", h.Update)
		cars.PATCH("/:id/status", h.SetStatus)
		cars.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	var req model.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	vehicle, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	h.cache.Flush()
	httputil.Created(c, vehicle)
}

func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid car ID")
		return
	}

	vehicle, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, vehicle)
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

	cars, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, cars, filters.Pagination.Page, filters.Pagination.PageSize, total)
}

func (h *Handler) ListActive(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	cars, err := h.service.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, cars)
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
		httputil.BadRequest(c, "invalid car ID")
		return
	}

	var req model.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	vehicle, err := h.service.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	h.cache.Flush()
	httputil.Success(c, vehicle)
}

func (h *Handler) SetStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid car ID")
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
		httputil.BadRequest(c, "invalid car ID")
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
