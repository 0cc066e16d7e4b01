package appointment

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/service/agenda"
)

// parseFilters reads list query parameters. shortcut= takes precedence over
// explicit start_date/end_date.
func parseFilters(c *gin.Context, tenantID uuid.UUID) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{
		TenantID: tenantID,
		Status:   model.AppointmentStatus(c.Query("status")),
		Search:   c.Query("search"),
	}

	for param, dst := range map[string]**uuid.UUID{
		"motorista_id":  &filters.MotoristaID,
		"coletadora_id": &filters.ColetadoraID,
		"cliente_id":    &filters.ClienteID,
	} {
		if v := c.Query(param); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s", param)
			}
			*dst = &id
		}
	}

	if name := c.Query("shortcut"); name != "" {
		r, ok := agenda.ResolveShortcut(name, time.Now())
		if !ok {
			return nil, fmt.Errorf("unknown shortcut %q", name)
		}
		filters.StartDate = &r.Start
		filters.EndDate = &r.End
	} else {
		if v := c.Query("start_date"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
			}
			filters.StartDate = &t
		}
		if v := c.Query("end_date"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
			}
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filters.EndDate = &end
		}
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

	return filters, nil
}
