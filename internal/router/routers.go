package router

import (
	"time"

	"github.com/Payphone-Digital/marketplace/config"
	"github.com/Payphone-Digital/marketplace/internal/handler"
	"github.com/Payphone-Digital/marketplace/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	offerHandler   *handler.OfferHandler
	accountHandler *handler.AccountHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config

	// mediaDir is served under /media when pictures are stored locally.
	mediaDir string
}

func NewRouter(
	offer *handler.OfferHandler,
	account *handler.AccountHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
	mediaDir string,
) *Router {
	return &Router{
		offerHandler:   offer,
		accountHandler: account,
		healthHandler:  health,

		jwtMw:    jwtMw,
		Config:   config,
		mediaDir: mediaDir,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware(2 * time.Second))
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.ContextMiddleware("http", r.Config.App.Timeout))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/health/live", r.healthHandler.BasicHealth)
	}

	if r.mediaDir != "" {
		router.Static("/media", r.mediaDir)
	}

	public := router.Group("")
	public.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
	{
		r.accountRoutes(public)
		r.offerRoutes(public)
	}

	return router
}
