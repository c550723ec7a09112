package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

func (a *App) submitConsultation(c *gin.Context) {
	var payload consultationSubmitRequest
	if !mustJSON(c, &payload) {
		return
	}

	situation := strings.TrimSpace(payload.Situation)
	if situation == "" {
		writeError(c, http.StatusBadRequest, "situation is required")
		return
	}

	result, err := a.runConsultation(
		c.Request.Context(),
		strings.TrimSpace(payload.UserID),
		payload.Situation,
		payload.ConversationHistory,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to process consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":       result.Response,
		"category":       result.Category,
		"riskWarning":    result.RiskWarning,
		"consultationId": result.ConsultationID,
	})
}

func (a *App) listConsultations(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}

	limit := 20
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	consultations, err := a.loadConsultations(c.Request.Context(), userID, limit, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load consultations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (a *App) updateConsultationHelpful(c *gin.Context) {
	var payload consultationHelpfulRequest
	if !mustJSON(c, &payload) {
		return
	}

	consultationID := strings.TrimSpace(payload.ConsultationID)
	if consultationID == "" {
		writeError(c, http.StatusBadRequest, "consultationId is required")
		return
	}
	if payload.Helpful == nil {
		writeError(c, http.StatusBadRequest, "helpful is required")
		return
	}

	record := consultationRecord{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`UPDATE "Consultation"
		 SET helpful = $2
		 WHERE id = $1
		 RETURNING id, "userId", situation, response, category, helpful, "createdAt"`,
		consultationID,
		*payload.Helpful,
	).Scan(
		&record.ID,
		&record.UserID,
		&record.Situation,
		&record.Response,
		&record.Category,
		&record.Helpful,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(c, http.StatusNotFound, "Consultation not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to update consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultation": record})
}
