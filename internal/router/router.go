package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/config"
	"github.com/saudelog/agenda-api/internal/handler/health"
	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/pkg/metrics"
)

// Handler is anything that can attach its routes to the API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine *gin.Engine
}

// New assembles the engine: middleware chain, health and metrics endpoints,
// and every handler under the authenticated /api/v1 group.
func New(
	cfg *config.Config,
	logger zerolog.Logger,
	m *metrics.Metrics,
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	handlers ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst).RateLimit(),
		middleware.Timeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
	)

	healthH.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.Use(auth.Authenticate())
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
