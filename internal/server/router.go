package server

import (
	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/container"
)

// SetupRouter mounts the post routes. Every other path answers 404.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	// /posts/ is not /posts; answer 404 instead of redirecting
	router.RedirectTrailingSlash = false

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	setupPostRoutes(router, c)

	router.NoRoute(response.NotFound)
	router.NoMethod(response.NotFound)

	return router
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(router *gin.Engine, c *container.Container) {
	posts := router.Group("/posts")
	{
		posts.GET("", c.PostHandler.List)
		posts.GET("/:id", c.PostHandler.Get)
		posts.POST("", c.PostHandler.Create)
		posts.PUT("/:id", c.PostHandler.Update)
		posts.DELETE("/:id", c.PostHandler.Delete)
	}
}
