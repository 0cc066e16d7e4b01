package appointment

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/appointment"
	"github.com/saudelog/agenda-api/pkg/errors"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *appointment.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/agenda", h.Agenda)
		appointments.POST("/import", h.Import)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id", h.Update)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.PATCH("/:id/assign", h.Assign)
		appointments.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, view)
}

func (h *Handler) Get(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	view, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, view)
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	filters, err := parseFilters(c, tenantID)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	views, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, views, filters.Pagination.Page, filters.Pagination.PageSize, total)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, view)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.UpdateStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, view)
}

func (h *Handler) Assign(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.Assign(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, view)
}

// Delete requires confirm=true; without it nothing is touched. hard=true
// additionally requires the admin role and removes the row permanently.
func (h *Handler) Delete(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
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

func (h *Handler) Agenda(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			httputil.BadRequest(c, "invalid year")
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			httputil.BadRequest(c, "invalid month")
			return
		}
		month = time.Month(m)
	}

	var selected time.Time
	if v := c.Query("selected"); v != "" {
		sel, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			httputil.BadRequest(c, "invalid selected date, expected YYYY-MM-DD")
			return
		}
		selected = sel
	}

	weeks, err := h.service.Agenda(c.Request.Context(), tenantID, year, month, selected)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"year": year, "month": int(month), "weeks": weeks})
}

// Import ingests an Excel spreadsheet uploaded as multipart form field "file".
func (h *Handler) Import(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httputil.BadRequest(c, "missing file upload")
		return
	}
	defer file.Close()

	results, err := h.service.ImportExcel(c.Request.Context(), tenantID, file)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, gin.H{"rows": results})
}
