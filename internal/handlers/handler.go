package handlers

import (
	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ScreenFeed streams render-surface changes to websocket clients.
type ScreenFeed interface {
	Subscribe() (<-chan models.ScreenSnapshot, func())
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	screens  ScreenFeed
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. screens may be
// nil, in which case /ws only carries periodic status frames.
func NewHandler(services *service.Service, screens ScreenFeed, log *logger.Logger) *Handler {
	return &Handler{services: services, screens: screens, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live screen and light stream, same port
	router.GET("/ws", h.wsConnect)

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
		h.registerKioskRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerKioskRoutes(api *gin.RouterGroup) {
	kiosk := api.Group("/kiosk")
	{
		kiosk.GET("/status", h.getStatus)
		// Body example: {"value":"QR-123"}
		kiosk.POST("/scan", h.injectScan)
		// Body example: {"mode":"BLINK","color":"#ff0000","seconds":3}
		kiosk.POST("/lamp", h.lampTest)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
