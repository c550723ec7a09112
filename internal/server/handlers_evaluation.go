package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (a *App) upsertEvaluation(c *gin.Context) {
	var payload evaluationRequest
	if !mustJSON(c, &payload) {
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}
	evalType := strings.TrimSpace(payload.Type)
	if evalType != "pre" && evalType != "post" {
		writeError(c, http.StatusBadRequest, `type must be "pre" or "post"`)
		return
	}

	scales := []*int{
		payload.KnowledgeLevel,
		payload.ConfidenceLevel,
		payload.EmotionalRegulation,
		payload.CommunicationQuality,
		payload.OverallSatisfaction,
		payload.StressLevel,
		payload.SupportNetwork,
	}
	for _, scale := range scales {
		if scale != nil && (*scale < 1 || *scale > 5) {
			writeError(c, http.StatusBadRequest, "all scales must be between 1 and 5")
			return
		}
	}

	// On create, omitted scales default to the midpoint 3; on update,
	// only supplied fields change — the COALESCE pairs below cover both.
	record := evaluationRecord{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`INSERT INTO "Evaluation" (
			id, "userId", type, "knowledgeLevel", "confidenceLevel", "emotionalRegulation",
			"communicationQuality", "overallSatisfaction", "stressLevel", "supportNetwork",
			notes, "createdAt"
		) VALUES (
			$1, $2, $3,
			COALESCE($4, 3), COALESCE($5, 3), COALESCE($6, 3),
			COALESCE($7, 3), COALESCE($8, 3), COALESCE($9, 3), COALESCE($10, 3),
			$11, NOW()
		)
		ON CONFLICT ("userId", type) DO UPDATE SET
			"knowledgeLevel" = COALESCE($4, "Evaluation"."knowledgeLevel"),
			"confidenceLevel" = COALESCE($5, "Evaluation"."confidenceLevel"),
			"emotionalRegulation" = COALESCE($6, "Evaluation"."emotionalRegulation"),
			"communicationQuality" = COALESCE($7, "Evaluation"."communicationQuality"),
			"overallSatisfaction" = COALESCE($8, "Evaluation"."overallSatisfaction"),
			"stressLevel" = COALESCE($9, "Evaluation"."stressLevel"),
			"supportNetwork" = COALESCE($10, "Evaluation"."supportNetwork"),
			notes = COALESCE($11, "Evaluation".notes)
		RETURNING id, "userId", type, "knowledgeLevel", "confidenceLevel", "emotionalRegulation",
		          "communicationQuality", "overallSatisfaction", "stressLevel", "supportNetwork",
		          notes, "createdAt"`,
		uuid.NewString(),
		userID,
		evalType,
		payload.KnowledgeLevel,
		payload.ConfidenceLevel,
		payload.EmotionalRegulation,
		payload.CommunicationQuality,
		payload.OverallSatisfaction,
		payload.StressLevel,
		payload.SupportNetwork,
		toOptionalString(payload.Notes),
	).Scan(
		&record.ID,
		&record.UserID,
		&record.Type,
		&record.KnowledgeLevel,
		&record.ConfidenceLevel,
		&record.EmotionalRegulation,
		&record.CommunicationQuality,
		&record.OverallSatisfaction,
		&record.StressLevel,
		&record.SupportNetwork,
		&record.Notes,
		&record.CreatedAt,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save evaluation")
		return
	}

	if err := a.appendUsageLog(c.Request.Context(), userID, "evaluation", evalType); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to record usage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": record})
}

func (a *App) getEvaluations(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}

	evalType := strings.TrimSpace(c.Query("type"))
	if evalType != "" {
		if evalType != "pre" && evalType != "post" {
			writeError(c, http.StatusBadRequest, `type must be "pre" or "post"`)
			return
		}
		record := evaluationRecord{}
		err := a.db.QueryRow(
			c.Request.Context(),
			`SELECT id, "userId", type, "knowledgeLevel", "confidenceLevel", "emotionalRegulation",
			        "communicationQuality", "overallSatisfaction", "stressLevel", "supportNetwork",
			        notes, "createdAt"
			 FROM "Evaluation"
			 WHERE "userId" = $1 AND type = $2`,
			userID,
			evalType,
		).Scan(
			&record.ID,
			&record.UserID,
			&record.Type,
			&record.KnowledgeLevel,
			&record.ConfidenceLevel,
			&record.EmotionalRegulation,
			&record.CommunicationQuality,
			&record.OverallSatisfaction,
			&record.StressLevel,
			&record.SupportNetwork,
			&record.Notes,
			&record.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"evaluation": nil})
			return
		}
		if err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load evaluation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"evaluation": record})
		return
	}

	evaluations, err := a.loadEvaluations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load evaluations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": evaluations})
}
