package handlers

import (
	"net/http"

	"controlling_doze/internal/logger"
	"controlling_doze/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetricsHandler exposes h under GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(hd *Handler) { hd.metrics = h }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Status stream over WebSocket on the same port; it reads the device, so it
	// needs an operator token like the API.
	router.GET("/ws", h.requireStreamOperator, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requireOperator)
	{
		h.registerDeviceRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	devices := api.Group("/devices")
	{
		devices.GET("", h.listDevices)
		// Body example: {"serial":"emulator-5554","name":"pixel","transport":"adb"}
		devices.POST("", h.registerDevice)
		devices.DELETE("/:serial", h.removeDevice)

		devices.GET("/:serial/doze", h.getStatus)
		devices.GET("/:serial/doze/snapshot", h.getSnapshot)
		devices.POST("/:serial/doze/:type/enter", h.enterDoze)
		devices.POST("/:serial/doze/:type/leave", h.leaveDoze)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}
