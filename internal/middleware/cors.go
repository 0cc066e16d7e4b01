package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saudelog/agenda-api/internal/config"
)

// CORS applies the configured cross-origin policy. An empty origin list
// allows any origin, which is only sensible behind the gateway.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-User-ID",
			"X-User-Role",
			"X-Tenant-ID",
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := "*"
		if len(cfg.AllowedOrigins) > 0 {
			allowed = ""
			for _, o := range cfg.AllowedOrigins {
				if o == "*" || o == origin {
					allowed = origin
					break
				}
			}
		}

		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", strings.Join(methods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(headers, ", "))
			c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
