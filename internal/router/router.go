package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-assistant/internal/handler"
	"github.com/jwalitptl/clinic-assistant/internal/middleware"
)

// Handler registers a route group on the API router.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
}

type Router struct {
	engine       *gin.Engine
	h            *handler.Handler
	patientH     Handler
	appointmentH Handler
	deadlineH    Handler
	inventoryH   Handler
	chatH        Handler
}

func NewRouter(
	h *handler.Handler,
	patientH Handler,
	appointmentH Handler,
	deadlineH Handler,
	inventoryH Handler,
	chatH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return &Router{
		engine:       engine,
		h:            h,
		patientH:     patientH,
		appointmentH: appointmentH,
		deadlineH:    deadlineH,
		inventoryH:   inventoryH,
		chatH:        chatH,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/healthz", r.h.LivenessCheck)
	r.engine.GET("/readyz", r.h.ReadinessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api/v1")
	{
		api.GET("/stats", r.h.Stats)
		api.POST("/backup", r.h.Backup)

		r.patientH.RegisterRoutes(api)
		r.appointmentH.RegisterRoutes(api)
		r.deadlineH.RegisterRoutes(api)
		r.inventoryH.RegisterRoutes(api)
		r.chatH.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
