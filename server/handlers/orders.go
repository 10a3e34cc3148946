package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ordermatch/server/errors"
)

// parseOrderRequest тело запроса разбора текстового заказа
type parseOrderRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseOrder обрабатывает POST /api/orders/parse: текстовый заказ целиком
func (h *Handler) ParseOrder(c *gin.Context) {
	var req parseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("text field is required", err))
		return
	}

	result := h.Orders.ProcessText(req.Text)
	c.JSON(http.StatusOK, result)
}

// UploadOrder обрабатывает POST /api/orders/upload: файл заказа
// (xlsx, csv, txt) через multipart form
func (h *Handler) UploadOrder(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.NewValidationError("file field is required", err))
		return
	}

	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		respondError(c, apperrors.NewValidationError("file is too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.NewValidationError("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to read uploaded file", err))
		return
	}
	if h.MaxUploadBytes > 0 && int64(len(data)) > h.MaxUploadBytes {
		respondError(c, apperrors.NewValidationError("file is too large", nil))
		return
	}

	result, err := h.Orders.ProcessUpload(fileHeader.Filename, data)
	if err != nil {
		// Проблемы содержимого файла — ошибка клиента, не сервера
		respondError(c, apperrors.NewValidationError(err.Error(), err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// MatchProduct обрабатывает GET /api/match: одиночный матчинг наименования
// и/или артикула
func (h *Handler) MatchProduct(c *gin.Context) {
	name := c.Query("name")
	article := c.Query("article")

	if name == "" && article == "" {
		respondError(c, apperrors.NewValidationError("name or article query parameter is required", nil))
		return
	}

	result := h.Orders.MatchOne(name, article)
	c.JSON(http.StatusOK, result)
}
