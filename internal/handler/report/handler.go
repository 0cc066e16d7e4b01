package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/service/report"
	"github.com/saudelog/agenda-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports/route-sheet", h.RouteSheet)
}

// RouteSheet streams the PDF for motorista_id on data (YYYY-MM-DD, defaults
// to today).
func (h *Handler) RouteSheet(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		httputil.BadRequest(c, "invalid tenant ID")
		return
	}

	driverID, err := uuid.Parse(c.Query("motorista_id"))
	if err != nil {
		httputil.BadRequest(c, "invalid motorista_id")
		return
	}

	date := time.Now()
	if v := c.Query("data"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			httputil.BadRequest(c, "invalid data, expected YYYY-MM-DD")
			return
		}
		date = d
	}

	pdf, err := h.service.RouteSheet(c.Request.Context(), tenantID, driverID, date)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	filename := fmt.Sprintf("folha-de-rota-%s.pdf", date.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
