package handlers

import (
	"errors"
	"net/http"

	"github.com/Pushpak2001/quzicam/internal/event"
	"github.com/Pushpak2001/quzicam/internal/models"
	"github.com/Pushpak2001/quzicam/internal/quizgen"
	"github.com/Pushpak2001/quzicam/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Pipeline  *quizgen.Pipeline
	Publisher *event.EventPublisher
}

func NewQuizHandler(pipeline *quizgen.Pipeline, publisher *event.EventPublisher) *QuizHandler {
	return &QuizHandler{Pipeline: pipeline, Publisher: publisher}
}

// GenerateQuiz runs the full image-to-quiz pipeline for one request.
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	var req models.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	payload, err := h.Pipeline.Generate(c.Request.Context(), &req)
	if err != nil {
		h.Publisher.Publish("quiz.generation.failed", gin.H{"error": err.Error()})

		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid quiz request", err)
			return
		}
		var toolErr *models.ToolError
		if errors.As(err, &toolErr) {
			utils.ErrorResponse(c, http.StatusBadGateway, "Language tool failed", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, "Quiz generation failed", err)
		return
	}

	h.Publisher.Publish("quiz.generated", gin.H{
		"question_count": len(payload.Questions),
		"language":       payload.DetectedLanguage,
	})
	utils.SuccessResponse(c, "Quiz generated successfully", payload)
}
