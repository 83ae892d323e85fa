package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingHandler "github.com/salonbook/booking-api/internal/handler/booking"
	healthHandler "github.com/salonbook/booking-api/internal/handler/health"
	notificationHandler "github.com/salonbook/booking-api/internal/handler/notification"
	reviewHandler "github.com/salonbook/booking-api/internal/handler/review"
	"github.com/salonbook/booking-api/internal/middleware"
	"github.com/salonbook/booking-api/pkg/auth"
	"github.com/salonbook/booking-api/pkg/logger"
	"github.com/salonbook/booking-api/pkg/metrics"
)

type Router struct {
	engine *gin.Engine
}

type Deps struct {
	Verifier    *auth.Verifier
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
	RateLimiter *middleware.RateLimiter

	Health        *healthHandler.Handler
	Bookings      *bookingHandler.Handler
	Reviews       *reviewHandler.Handler
	Notifications *notificationHandler.Handler
}

// NewRouter assembles the middleware chain and mounts all routes.
// Everything under /api/v1 requires a verified bearer token.
func NewRouter(deps Deps) *Router {
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(deps.Logger.Zerolog()))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	engine.Use(middleware.Metrics(deps.Metrics))
	if deps.RateLimiter != nil {
		engine.Use(deps.RateLimiter.RateLimit())
	}

	deps.Health.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth(deps.Verifier))

	deps.Bookings.RegisterRoutes(api)
	deps.Reviews.RegisterRoutes(api)
	deps.Notifications.RegisterRoutes(api)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
