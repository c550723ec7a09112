package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const quickTipInstruction = "\n\nAhora responde de forma MUY BREVE (máximo 2 oraciones) con un consejo práctico sobre el tema."

const quickTipFallback = "Respira profundo antes de responder: tu calma es el mejor modelo de regulación para tu hijo. Un momento de pausa vale más que la respuesta perfecta."

func (a *App) getQuickTip(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		topic = "crianza respetuosa"
	}

	messages := []ChatTurn{
		{Role: "system", Content: consultationSystemPrompt + quickTipInstruction},
		{Role: "user", Content: "Dame un consejo rápido sobre: " + topic},
	}

	tip, err := a.ai.Complete(c.Request.Context(), CompletionRequest{
		Messages:    messages,
		Temperature: a.cfg.AITemperature,
		MaxTokens:   200,
	})
	if errors.Is(err, ErrCompletionUnavailable) {
		log.Printf("quick tip fallback for topic %q: %v", topic, err)
		tip = quickTipFallback
	} else if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to generate tip")
		return
	}
	if strings.TrimSpace(tip) == "" {
		tip = quickTipFallback
	}

	c.JSON(http.StatusOK, gin.H{
		"tip":   tip,
		"topic": topic,
	})
}
