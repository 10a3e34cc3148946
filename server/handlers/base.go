package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"ordermatch/database"
	"ordermatch/orders"
	apperrors "ordermatch/server/errors"
	"ordermatch/server/middleware"
	"ordermatch/server/services"
	"ordermatch/synonyms"
	"ordermatch/versioning"
)

// Handler HTTP обработчики API матчинга заказов
type Handler struct {
	Catalog        *services.CatalogService
	Orders         *services.OrderService
	Synonyms       *synonyms.Manager
	MaxUploadBytes int64
}

// NewHandler создает набор обработчиков
func NewHandler(catalog *services.CatalogService, orderSvc *services.OrderService, synonymMgr *synonyms.Manager, maxUploadBytes int64) *Handler {
	return &Handler{
		Catalog:        catalog,
		Orders:         orderSvc,
		Synonyms:       synonymMgr,
		MaxUploadBytes: maxUploadBytes,
	}
}

// respondError логирует ошибку и отвечает JSON с ее HTTP статусом
func respondError(c *gin.Context, err error) {
	appErr := mapError(err)

	log.Printf("[API] %s %s failed: %v [RequestID: %s]",
		c.Request.Method, c.Request.URL.Path, appErr, middleware.GetRequestIDFromGin(c))

	c.AbortWithStatusJSON(appErr.Code, gin.H{
		"error":   true,
		"message": appErr.Message,
	})
}

// mapError переводит доменные ошибки в AppError с корректным HTTP статусом
func mapError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, database.ErrProductNotFound):
		return apperrors.NewNotFoundError("product not found", err)
	case errors.Is(err, database.ErrProductExists):
		return apperrors.NewConflictError("product already exists", err)
	case errors.Is(err, versioning.ErrAlreadyDeleted):
		return apperrors.NewConflictError("product is already deleted", err)
	case errors.Is(err, versioning.ErrNotDeleted):
		return apperrors.NewConflictError("product is not deleted", err)
	case errors.Is(err, synonyms.ErrSuggestionNotFound):
		return apperrors.NewNotFoundError("synonym suggestion not found", err)
	case errors.Is(err, synonyms.ErrSuggestionResolved):
		return apperrors.NewConflictError("synonym suggestion already resolved", err)
	case errors.Is(err, orders.ErrNoUsableColumns):
		return apperrors.NewValidationError("no product or article column recognized", err)
	default:
		return apperrors.NewInternalError("request failed", err)
	}
}
