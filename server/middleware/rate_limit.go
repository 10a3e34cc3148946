package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// GinUploadRateLimit ограничивает частоту загрузок файлов заказов.
// Лимитер общий для всех клиентов: разбор файла упирается в диск и CPU
// сервера, а не в конкретного клиента.
func GinUploadRateLimit(perMinute, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   true,
				"message": "Too many upload requests, retry later",
			})
			return
		}
		c.Next()
	}
}
