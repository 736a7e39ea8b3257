package router

import (
	"github.com/Payphone-Digital/marketplace/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) offerRoutes(rg *gin.RouterGroup) {
	rg.GET("/offers", r.offerHandler.List)
	rg.GET("/offers/:id", r.offerHandler.Get)

	offer := rg.Group("/offer")
	offer.Use(r.jwtMw.RequireAuth())
	{
		offer.POST("/publish", middleware.RequireParams(r.offerHandler.PublishRules()...), r.offerHandler.Publish)
		offer.PUT("/modify/:id", r.offerHandler.Modify)
		offer.DELETE("/delete/:id", r.offerHandler.Delete)
	}
}
