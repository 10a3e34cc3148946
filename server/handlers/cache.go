package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheInfo обрабатывает GET /api/cache/info: сводка текущего слепка
func (h *Handler) CacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.CacheInfo())
}

// RefreshCache обрабатывает POST /api/cache/refresh: принудительное
// перечитывание каталога из БД
func (h *Handler) RefreshCache(c *gin.Context) {
	if err := h.Catalog.RefreshCache(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "refreshed",
		"cache":  h.Catalog.CacheInfo(),
	})
}
