package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"easyapp_server/internal/metrics"
)

// NewRouter builds the engine with the middleware stack and all routes registered.
func NewRouter(h *APIHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AddAllowHeaders(RequestIDHeader)
	corsConfig.AddExposeHeaders(RequestIDHeader, "Content-Disposition")
	router.Use(cors.New(corsConfig))

	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {

	// --- Session Lifecycle ---
	router.POST("/sessions", h.CreateSession)
	sessionGroup := router.Group("/sessions/:id")
	{
		sessionGroup.GET("", h.GetSession)
		sessionGroup.DELETE("", h.DeleteSession)

		// --- Generation ---
		sessionGroup.POST("/build", h.Build)

		// --- Result Viewing ---
		sessionGroup.PUT("/selection", h.Select)
		sessionGroup.GET("/files/*path", h.GetFile)
		sessionGroup.GET("/validation", h.ValidateAppTree)

		// --- Packaging ---
		sessionGroup.GET("/archive", h.DownloadArchive)
	}

	// --- Health and Metrics ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Len()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
