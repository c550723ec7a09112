package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type exportEvaluation struct {
	Type                 string `json:"type"`
	KnowledgeLevel       int    `json:"knowledgeLevel"`
	ConfidenceLevel      int    `json:"confidenceLevel"`
	EmotionalRegulation  int    `json:"emotionalRegulation"`
	CommunicationQuality int    `json:"communicationQuality"`
	OverallSatisfaction  int    `json:"overallSatisfaction"`
	StressLevel          int    `json:"stressLevel"`
	SupportNetwork       int    `json:"supportNetwork"`
	Date                 string `json:"date"`
}

type exportWeeklyRecord struct {
	Week                int `json:"week"`
	Year                int `json:"year"`
	ScreamLevel         int `json:"screamLevel"`
	UsedPunishment      int `json:"usedPunishment"`
	AppliedGentleLimits int `json:"appliedGentleLimits"`
	PositiveMoments     int `json:"positiveMoments"`
	Challenges          int `json:"challenges"`
}

type exportPayload struct {
	ParticipantCode string `json:"participantCode"`
	Demographics    struct {
		AgeRange      *string `json:"ageRange"`
		ChildAgeRange *string `json:"childAgeRange"`
		Country       *string `json:"country"`
	} `json:"demographics"`
	RegistrationDate  string               `json:"registrationDate"`
	Evaluations       []exportEvaluation   `json:"evaluations"`
	WeeklyProgress    []exportWeeklyRecord `json:"weeklyProgress"`
	ConsultationStats struct {
		Total      int            `json:"total"`
		Categories map[string]int `json:"categories"`
	} `json:"consultationStats"`
}

// buildExportPayload is the single source for both export formats, so
// JSON and CSV cannot drift apart on shared fields.
func (a *App) buildExportPayload(ctx context.Context, user anonymousUser) (exportPayload, error) {
	payload := exportPayload{
		ParticipantCode:  user.Code,
		RegistrationDate: user.CreatedAt.UTC().Format(time.RFC3339),
		Evaluations:      make([]exportEvaluation, 0, 2),
		WeeklyProgress:   make([]exportWeeklyRecord, 0, 12),
	}
	payload.Demographics.AgeRange = user.AgeRange
	payload.Demographics.ChildAgeRange = user.ChildAgeRange
	payload.Demographics.Country = user.Country
	payload.ConsultationStats.Categories = make(map[string]int)

	evaluations, err := a.loadEvaluations(ctx, user.ID)
	if err != nil {
		return exportPayload{}, err
	}
	for _, e := range evaluations {
		payload.Evaluations = append(payload.Evaluations, exportEvaluation{
			Type:                 e.Type,
			KnowledgeLevel:       e.KnowledgeLevel,
			ConfidenceLevel:      e.ConfidenceLevel,
			EmotionalRegulation:  e.EmotionalRegulation,
			CommunicationQuality: e.CommunicationQuality,
			OverallSatisfaction:  e.OverallSatisfaction,
			StressLevel:          e.StressLevel,
			SupportNetwork:       e.SupportNetwork,
			Date:                 e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	weeklyRecords, err := a.loadWeeklyRecords(ctx, user.ID, 0, false)
	if err != nil {
		return exportPayload{}, err
	}
	for _, r := range weeklyRecords {
		punishment := 0
		if r.UsedPunishment {
			punishment = 1
		}
		payload.WeeklyProgress = append(payload.WeeklyProgress, exportWeeklyRecord{
			Week:                r.WeekNumber,
			Year:                r.Year,
			ScreamLevel:         r.ScreamLevel,
			UsedPunishment:      punishment,
			AppliedGentleLimits: r.AppliedGentleLimits,
			PositiveMoments:     r.PositiveMoments,
			Challenges:          r.Challenges,
		})
	}

	consultations, err := a.loadConsultations(ctx, user.ID, 0, false)
	if err != nil {
		return exportPayload{}, err
	}
	payload.ConsultationStats.Total = len(consultations)
	for _, record := range consultations {
		if record.Category != "" {
			payload.ConsultationStats.Categories[record.Category]++
		}
	}

	return payload, nil
}

func (a *App) exportUserData(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(c, http.StatusBadRequest, `format must be "json" or "csv"`)
		return
	}

	user, err := a.loadUserByID(c.Request.Context(), userID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}

	payload, err := a.buildExportPayload(c.Request.Context(), user)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to build export")
		return
	}

	if format == "csv" {
		body, err := renderExportCSV(payload)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to build CSV export")
			return
		}
		filename := fmt.Sprintf("datos_crianza_%s.csv", user.Code)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		c.String(http.StatusOK, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       payload,
		"exportDate": time.Now().UTC().Format(time.RFC3339),
	})
}

// renderExportCSV writes the three sectioned blocks the research team
// expects: participant header, evaluations table, weekly-records table.
func renderExportCSV(payload exportPayload) (string, error) {
	var out bytes.Buffer
	writer := csv.NewWriter(&out)

	rows := [][]string{
		{"codigo_participante", "fecha_registro", "rango_edad", "rango_edad_hijo", "pais"},
		{
			payload.ParticipantCode,
			payload.RegistrationDate,
			stringOrEmpty(payload.Demographics.AgeRange),
			stringOrEmpty(payload.Demographics.ChildAgeRange),
			stringOrEmpty(payload.Demographics.Country),
		},
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	out.WriteString("\n=== EVALUACIONES ===\n")

	rows = [][]string{
		{"tipo", "conocimiento", "confianza", "regulacion_emocional", "comunicacion", "satisfaccion", "estres", "red_apoyo", "fecha"},
	}
	for _, e := range payload.Evaluations {
		rows = append(rows, []string{
			e.Type,
			strconv.Itoa(e.KnowledgeLevel),
			strconv.Itoa(e.ConfidenceLevel),
			strconv.Itoa(e.EmotionalRegulation),
			strconv.Itoa(e.CommunicationQuality),
			strconv.Itoa(e.OverallSatisfaction),
			strconv.Itoa(e.StressLevel),
			strconv.Itoa(e.SupportNetwork),
			e.Date,
		})
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	out.WriteString("\n=== PROGRESO SEMANAL ===\n")

	rows = [][]string{
		{"semana", "año", "nivel_gritos", "uso_castigos", "limites_amables", "momentos_positivos", "desafios"},
	}
	for _, r := range payload.WeeklyProgress {
		rows = append(rows, []string{
			strconv.Itoa(r.Week),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.ScreamLevel),
			strconv.Itoa(r.UsedPunishment),
			strconv.Itoa(r.AppliedGentleLimits),
			strconv.Itoa(r.PositiveMoments),
			strconv.Itoa(r.Challenges),
		})
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}

	return out.String(), nil
}
