package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and which language-model backend the
// agents use ("none" means every stage runs its fallback table).
type HealthHandler struct {
	provider string
}

func NewHealthHandler(provider string) *HealthHandler {
	if provider == "" {
		provider = "none"
	}
	return &HealthHandler{provider: provider}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"message":      "MaiOpinion API is running",
		"llm_provider": h.provider,
	})
}
