package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	summaryRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/summary"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// SummaryHandler exposes persisted call summaries for review.
type SummaryHandler struct {
	Summaries summaryRepo.SummaryRepository
}

// NewSummaryHandler constructs the handler.
func NewSummaryHandler(repo summaryRepo.SummaryRepository) *SummaryHandler {
	return &SummaryHandler{Summaries: repo}
}

// ListSummariesHandler returns recent call summaries, optionally filtered
// by caller phone, newest first.
func (h *SummaryHandler) ListSummariesHandler(c *gin.Context) {
	phone := c.Query("phone")
	if phone != "" {
		normalized, err := utils.NormalizePhone(phone)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid phone number", err.Error())
			return
		}
		phone = normalized
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 200 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", "expected an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	summaries, err := h.Summaries.List(c.Request.Context(), phone, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list summaries", err.Error())
		return
	}
	c.JSON(http.StatusOK, summaries)
}
