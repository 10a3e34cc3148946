package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ordermatch/server/errors"
)

// suggestionRequest тело запроса фиксации предложения псевдонима
type suggestionRequest struct {
	Alias   string `json:"alias" binding:"required"`
	Article string `json:"article_number" binding:"required"`
	Score   int    `json:"score"`
}

// decisionRequest тело запроса утверждения/отклонения предложения
type decisionRequest struct {
	Alias   string `json:"alias" binding:"required"`
	Article string `json:"article_number" binding:"required"`
}

// ListSuggestions обрабатывает GET /api/synonyms/suggestions:
// нерассмотренные предложения, самые частые первыми
func (h *Handler) ListSuggestions(c *gin.Context) {
	pending, err := h.Synonyms.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": pending,
		"count":       len(pending),
	})
}

// RecordSuggestion обрабатывает POST /api/synonyms/suggestions:
// ручная фиксация пары псевдоним-артикул
func (h *Handler) RecordSuggestion(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("alias and article_number fields are required", err))
		return
	}

	if err := h.Synonyms.Record(req.Alias, req.Article, req.Score); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

// ApproveSuggestion обрабатывает POST /api/synonyms/suggestions/approve
func (h *Handler) ApproveSuggestion(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("alias and article_number fields are required", err))
		return
	}

	if err := h.Synonyms.Approve(req.Alias, req.Article, changedBy(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

// RejectSuggestion обрабатывает POST /api/synonyms/suggestions/reject
func (h *Handler) RejectSuggestion(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("alias and article_number fields are required", err))
		return
	}

	if err := h.Synonyms.Reject(req.Alias, req.Article); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
