package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zirvehikayem/blog-api/src/middleware"
)

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Auth    *AuthHandler
	Posts   *PostHandler
	Contact *ContactHandler
	About   *AboutHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts health checks at the root and the API under /api.
// Writes and the admin inbox require an admin bearer token.
func RegisterRoutes(router *gin.Engine, h Handlers, gate middleware.Authorizer) {
	router.GET("/health", h.Health.HandleHealth)
	router.GET("/ready", h.Health.HandleReady)
	router.GET("/info", h.Health.HandleInfo)

	admin := middleware.AdminAuth(gate)

	api := router.Group("/api")
	api.GET("/", HandleRoot)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.HandleLogin)
	auth.POST("/verify", admin, h.Auth.HandleVerify)
	auth.POST("/logout", admin, h.Auth.HandleLogout)

	api.GET("/posts", h.Posts.HandleList)
	api.GET("/posts/featured", h.Posts.HandleFeatured)
	api.GET("/posts/:slug", h.Posts.HandleGet)
	api.POST("/posts", admin, h.Posts.HandleCreate)
	api.PUT("/posts/:id", admin, h.Posts.HandleUpdate)
	api.DELETE("/posts/:id", admin, h.Posts.HandleDelete)
	api.GET("/categories", h.Posts.HandleCategories)

	api.POST("/contact", h.Contact.HandleSubmit)
	api.GET("/contact", admin, h.Contact.HandleList)
	api.PUT("/contact/:id/status", admin, h.Contact.HandleUpdateStatus)

	api.GET("/about", h.About.HandleGet)
	api.PUT("/about", admin, h.About.HandleUpdate)
}
