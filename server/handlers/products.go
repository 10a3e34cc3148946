package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ordermatch/catalog"
	apperrors "ordermatch/server/errors"
)

// productRequest тело запроса создания/обновления записи каталога
type productRequest struct {
	ArticleNumber string   `json:"article_number"`
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category"`
	Available     *bool    `json:"is_available"`
	Synonyms      []string `json:"synonyms"`
}

// ListProducts обрабатывает GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	entries, err := h.Catalog.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": entries,
		"count":    len(entries),
	})
}

// GetProduct обрабатывает GET /api/products/:article
func (h *Handler) GetProduct(c *gin.Context) {
	entry, err := h.Catalog.GetProduct(c.Param("article"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateProduct обрабатывает POST /api/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("name field is required", err))
		return
	}
	if req.ArticleNumber == "" {
		respondError(c, apperrors.NewValidationError("article_number field is required", nil))
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	created, warnings, err := h.Catalog.CreateProduct(catalog.Entry{
		ArticleNumber: req.ArticleNumber,
		Name:          req.Name,
		Category:      req.Category,
		Available:     available,
		Synonyms:      req.Synonyms,
	}, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, productResponse(created, warnings))
}

// UpdateProduct обрабатывает PUT /api/products/:article.
// Артикул в пути, не в теле: идентичность записи неизменяема.
func (h *Handler) UpdateProduct(c *gin.Context) {
	article := c.Param("article")

	current, err := h.Catalog.GetProduct(article)
	if err != nil {
		respondError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("name field is required", err))
		return
	}

	current.Name = req.Name
	current.Category = req.Category
	if req.Available != nil {
		current.Available = *req.Available
	}
	if req.Synonyms != nil {
		current.Synonyms = req.Synonyms
	}

	updated, warnings, err := h.Catalog.UpdateProduct(current, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse(updated, warnings))
}

// DeleteProduct обрабатывает DELETE /api/products/:article (мягкое удаление)
func (h *Handler) DeleteProduct(c *gin.Context) {
	article := c.Param("article")

	warnings, err := h.Catalog.SoftDelete(article, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse("deleted", article, warnings))
}

// RestoreProduct обрабатывает POST /api/products/:article/restore
func (h *Handler) RestoreProduct(c *gin.Context) {
	article := c.Param("article")

	warnings, err := h.Catalog.Restore(article, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse("restored", article, warnings))
}

// ProductHistory обрабатывает GET /api/products/:article/history
func (h *Handler) ProductHistory(c *gin.Context) {
	history, err := h.Catalog.History(c.Param("article"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": c.Param("article"),
		"history": history,
		"count":   len(history),
	})
}

// ExplainProduct обрабатывает GET /api/products/:article/explain?at=RFC3339
func (h *Handler) ExplainProduct(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, apperrors.NewValidationError("at parameter must be RFC3339", err))
			return
		}
		at = parsed
	}

	explanation, err := h.Catalog.Explain(c.Param("article"), at)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, explanation)
}

// ChangeLog обрабатывает GET /api/changes?limit=&offset=
func (h *Handler) ChangeLog(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	changes, err := h.Catalog.ChangeLog(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
		"limit":   limit,
		"offset":  offset,
	})
}

// productResponse формирует ответ мутации записи каталога. Предупреждения
// (например, об отказе обновления кэша) не меняют статус ответа: мутация
// сохранена
func productResponse(entry catalog.Entry, warnings []string) gin.H {
	response := gin.H{"product": entry}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	return response
}

// statusResponse формирует ответ операции над артикулом без тела записи
func statusResponse(status, article string, warnings []string) gin.H {
	response := gin.H{
		"status":  status,
		"article": article,
	}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	return response
}

// changedBy определяет автора изменения из заголовка запроса
func changedBy(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "api"
}

// queryInt читает числовой query-параметр со значением по умолчанию
func queryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
