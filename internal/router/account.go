package router

import "github.com/gin-gonic/gin"

func (r *Router) accountRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	{
		user.POST("/signup", r.accountHandler.Signup)
		user.POST("/login", r.accountHandler.Login)
	}
}
