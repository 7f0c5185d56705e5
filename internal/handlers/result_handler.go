package handlers

import (
	"context"
	"net/http"

	"github.com/Pushpak2001/quzicam/internal/handoff"
	"github.com/Pushpak2001/quzicam/internal/repository"
	"github.com/Pushpak2001/quzicam/internal/utils"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	Repo *repository.ResultRepository
}

func NewResultHandler(repo *repository.ResultRepository) *ResultHandler {
	return &ResultHandler{Repo: repo}
}

// ResolveResult decodes a handoff token. The token crosses an untrusted
// boundary, so garbage input yields an empty zero-score result, not an error.
func (h *ResultHandler) ResolveResult(c *gin.Context) {
	result := handoff.Resolve(c.Query("token"))
	c.JSON(http.StatusOK, result)
}

// GetResultsByUser lists the append-only quiz history for one user.
func (h *ResultHandler) GetResultsByUser(c *gin.Context) {
	results, err := h.Repo.FindByUser(context.Background(), c.Param("id"))
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load results", err)
		return
	}
	c.JSON(http.StatusOK, results)
}
