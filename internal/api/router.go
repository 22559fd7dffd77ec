package api

import (
	"github.com/gin-gonic/gin"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/api/handler"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/api/middleware"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

func SetupRouter(dir directory.SessionDirectory, entryService *service.EntryWorkflowService,
	exitService *service.ExitWorkflowService, reportService *service.ReportService,
	authMw *middleware.AuthMiddleware, wsManager *handler.WebSocketManager) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// WebSocket endpoint (không cần auth cho real-time connection)
	wsHandler := handler.NewWebSocketHandler(wsManager)
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(dir)
	r.POST("/auth/login", authHandler.Login)

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		lotH := handler.NewParkingLotHandler(dir)
		lotRoutes := v1.Group("/parking-lots")
		{
			lotRoutes.GET("", lotH.ListLots)
			lotRoutes.GET("/:id", lotH.GetLotByID)
		}

		sessionH := handler.NewSessionHandler(dir, reportService)
		sessionRoutes := v1.Group("/parking-sessions")
		{
			sessionRoutes.GET("", sessionH.FindSessions)
			sessionRoutes.GET("/active", sessionH.ListActiveSessions)
		}

		reportRoutes := v1.Group("/reports")
		reportRoutes.Use(authMw.AuthorizeRole("admin"))
		{
			reportRoutes.GET("/revenue", sessionH.RevenueReport)
		}

		entryH := handler.NewEntryWorkflowHandler(entryService)
		entryRoutes := v1.Group("/entry-workflows")
		entryRoutes.Use(authMw.AuthorizeRole("admin", "operator"))
		{
			entryRoutes.POST("", entryH.Start)
			entryRoutes.GET("/:id", entryH.Get)
			entryRoutes.POST("/:id/capture", entryH.Capture)
			entryRoutes.POST("/:id/confirm", entryH.Confirm)
			entryRoutes.DELETE("/:id", entryH.Cancel)
		}

		exitH := handler.NewExitWorkflowHandler(exitService)
		exitRoutes := v1.Group("/exit-workflows")
		exitRoutes.Use(authMw.AuthorizeRole("admin", "operator"))
		{
			exitRoutes.POST("", exitH.Start)
			exitRoutes.GET("/:id", exitH.Get)
			exitRoutes.POST("/:id/lookup", exitH.Lookup)
			exitRoutes.POST("/:id/capture", exitH.Capture)
			exitRoutes.POST("/:id/confirm", exitH.Confirm)
			exitRoutes.DELETE("/:id", exitH.Cancel)
		}
	}
	return r
}
