package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ordermatch/internal/config"
	"ordermatch/server/handlers"
	"ordermatch/server/middleware"
)

// NewRouter собирает gin-маршрутизатор API матчинга заказов
func NewRouter(cfg *config.Config, handler *handlers.Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinRequestIDMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinGzipMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/match", handler.MatchProduct)

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("/parse", handler.ParseOrder)
			ordersGroup.POST("/upload",
				middleware.GinUploadRateLimit(cfg.UploadRatePerMin, cfg.UploadRateBurst),
				handler.UploadOrder)
		}

		cache := api.Group("/cache")
		{
			cache.GET("/info", handler.CacheInfo)
			cache.POST("/refresh", handler.RefreshCache)
		}

		products := api.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("", handler.CreateProduct)
			products.GET("/:article", handler.GetProduct)
			products.PUT("/:article", handler.UpdateProduct)
			products.DELETE("/:article", handler.DeleteProduct)
			products.POST("/:article/restore", handler.RestoreProduct)
			products.GET("/:article/history", handler.ProductHistory)
			products.GET("/:article/explain", handler.ExplainProduct)
		}

		api.GET("/changes", handler.ChangeLog)

		suggestions := api.Group("/synonyms/suggestions")
		{
			suggestions.GET("", handler.ListSuggestions)
			suggestions.POST("", handler.RecordSuggestion)
			suggestions.POST("/approve", handler.ApproveSuggestion)
			suggestions.POST("/reject", handler.RejectSuggestion)
		}
	}

	return router
}
