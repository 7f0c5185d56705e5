package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Pushpak2001/quzicam/internal/event"
	"github.com/Pushpak2001/quzicam/internal/handoff"
	"github.com/Pushpak2001/quzicam/internal/models"
	"github.com/Pushpak2001/quzicam/internal/repository"
	"github.com/Pushpak2001/quzicam/internal/session"
	"github.com/Pushpak2001/quzicam/internal/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Sessions   *session.Registry
	ResultRepo *repository.ResultRepository
	Publisher  *event.EventPublisher
}

func NewSessionHandler(sessions *session.Registry, resultRepo *repository.ResultRepository, publisher *event.EventPublisher) *SessionHandler {
	return &SessionHandler{
		Sessions:   sessions,
		ResultRepo: resultRepo,
		Publisher:  publisher,
	}
}

// StartSession creates a machine for a generated payload and presents the
// first question.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var payload models.QuizPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	id := utils.GenerateSessionID()
	machine := h.Sessions.Create(id)
	if err := machine.Start(&payload); err != nil {
		h.Sessions.Remove(id)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid quiz payload", err)
		return
	}

	h.Publisher.Publish("quiz.session.started", gin.H{
		"session_id":     id,
		"question_count": machine.QuestionCount(),
		"language":       payload.DetectedLanguage,
	})

	c.JSON(http.StatusCreated, gin.H{
		"session_id":       id,
		"question_count":   machine.QuestionCount(),
		"current_index":    machine.CurrentIndex(),
		"current_question": machine.CurrentQuestion(),
	})
}

// SubmitAnswer records an option pick for the current question. Duplicate
// submissions are absorbed by the machine, so this always reports the state
// as it stands.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionIndex int `json:"question_index"`
		OptionIndex   int `json:"option_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	machine, ok := h.Sessions.Get(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Session not found")
		return
	}

	machine.Answer(req.QuestionIndex, req.OptionIndex)

	current := machine.CurrentQuestion()
	c.JSON(http.StatusOK, gin.H{
		"state":            machine.State().String(),
		"current_index":    machine.CurrentIndex(),
		"current_question": current,
		"score":            machine.Score(),
	})
}

// FinishSession ends the quiz, stores the result in history and returns the
// handoff token for the results view.
func (h *SessionHandler) FinishSession(c *gin.Context) {
	id := c.Param("id")
	machine, ok := h.Sessions.Get(id)
	if !ok {
		utils.NotFoundResponse(c, "Session not found")
		return
	}

	machine.Finish()
	result, ok := machine.Result()
	if !ok {
		utils.ErrorResponse(c, http.StatusConflict, "Session has no result yet", nil)
		return
	}
	h.Sessions.Remove(id)

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid token")
		return
	}
	result.UserID = userID

	if h.ResultRepo != nil {
		if err := h.ResultRepo.Append(context.Background(), result); err != nil {
			// History is best-effort; the user still gets their result.
			h.Publisher.Publish("quiz.history.append_failed", gin.H{"session_id": id, "error": err.Error()})
		}
	}

	token := handoff.Publish(result)
	h.Publisher.Publish("quiz.session.completed", gin.H{
		"session_id": id,
		"score":      fmt.Sprintf("%d/%d", result.Score, len(result.Questions)),
		"language":   result.Language,
	})

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"token":  token,
	})
}

// GetSessionStatus reports the machine's current state without mutating it.
func (h *SessionHandler) GetSessionStatus(c *gin.Context) {
	machine, ok := h.Sessions.Get(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Session not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":            machine.State().String(),
		"current_index":    machine.CurrentIndex(),
		"current_question": machine.CurrentQuestion(),
		"question_count":   machine.QuestionCount(),
		"score":            machine.Score(),
	})
}
