package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tburn-scan.backend/internal/interfaces/http/handlers"
	"tburn-scan.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	factoryHandler  *handlers.TokenFactoryHandler
	registryHandler *handlers.TokenRegistryHandler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Token factory routes (deployment surface)
		factory := v1.Group("/token-factory")
		{
			factory.POST("/estimate-gas", d.factoryHandler.EstimateGas)
			factory.POST("/build-transaction", d.factoryHandler.BuildTransaction)
			factory.POST("/process-receipt", middleware.IdempotencyMiddleware(), d.factoryHandler.ProcessReceipt)
			factory.POST("/simulate", middleware.IdempotencyMiddleware(), d.factoryHandler.Simulate)
			factory.GET("/status", d.factoryHandler.GetStatus)
			factory.GET("/tokens", d.factoryHandler.ListDeployedTokens)
			factory.GET("/tokens/:address", d.factoryHandler.GetDeployedToken)
			factory.GET("/validate/:address", d.factoryHandler.ValidateContract)
			factory.GET("/receipts/:txHash", d.factoryHandler.WaitForReceipt)
		}

		// Token registry routes (read surface + lifecycle)
		tokens := v1.Group("/tokens")
		{
			tokens.GET("", d.registryHandler.ListTokens)
			tokens.GET("/active", d.registryHandler.ListActiveTokens)
			tokens.GET("/stats", d.registryHandler.GetStats)
			tokens.GET("/export", d.registryHandler.ExportTokens)
			tokens.GET("/:address", d.registryHandler.GetToken)
			tokens.PATCH("/:address", d.registryHandler.UpdateToken)
			tokens.POST("", middleware.IdempotencyMiddleware(), d.registryHandler.RegisterToken)
			tokens.POST("/:address/pause", d.registryHandler.PauseToken)
			tokens.POST("/:address/resume", d.registryHandler.ResumeToken)
			tokens.POST("/:address/verify", d.registryHandler.VerifyToken)
		}

		// Admin routes (fronted by the gateway, unauthenticated here)
		admin := v1.Group("/admin")
		{
			admin.GET("/tokens", d.registryHandler.ListAdminTokens)
			admin.POST("/tokens/reload", d.registryHandler.ReloadRegistry)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "tburn-scan-backend",
			"version": "0.2.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
