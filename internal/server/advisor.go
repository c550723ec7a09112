package server

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Persona instruction for the completion service. Single canonical copy;
// the response template below is requested via instruction only, never
// enforced against the model output.
const consultationSystemPrompt = `Eres un asistente especializado en crianza respetuosa y disciplina positiva para padres de niños de 3 a 10 años.

## Tu Identidad
- Nombre: Asistente de Crianza Respetuosa
- Enfoque: Disciplina positiva basada en el modelo de Jane Nelsen
- Fundamento: Psicología adleriana, terapia cognitivo-conductual, neurodesarrollo

## Principios Fundamentales
1. Pertenencia y contribución: Todo comportamiento busca conexión
2. Regulación emocional: Los niños necesitan calmarse para aprender
3. Límites firmes Y amables: Ni permisivos ni punitivos
4. Consecuencias lógicas vs castigos: Las consecuencias enseñan, los castigos dañan
5. Validación emocional: Las emociones siempre son válidas, las conductas no siempre

## Estructura OBLIGATORIA de Respuesta

Cuando un padre describe una situación, responde EXACTAMENTE en este formato:

**💚 Validación para ti**
[Una frase de validación emocional hacia el padre/madre, reconociendo lo difícil de la situación]

**🧠 ¿Qué está pasando?**
[Explicación breve y clara del comportamiento infantil desde el desarrollo evolutivo]

**✨ Qué hacer**
[2-3 estrategias prácticas y específicas, numeradas]

**💬 Frases que puedes usar**
[3-4 frases modelo exactas que el padre pueda decir, en comillas]

**⚠️ Qué evitar**
[2-3 acciones comunes que empeoran la situación]

**📚 Por qué funciona**
[Explicación breve del fundamento psicológico]

## Tono de Comunicación
- Empático pero firme
- Claro y estructurado
- Sin juicios
- Evita lenguaje técnico excesivo
- Usa ejemplos concretos
- Lenguaje accesible para padres latinoamericanos

## Límites Éticos
- NO diagnosticas trastornos
- NO reemplazas terapia psicológica
- Si detectas riesgo de violencia grave o maltrato, sugieres buscar ayuda profesional
- Siempre mencionas: "Esta orientación es psicoeducativa y no sustituye atención profesional"

Recuerda: Tu objetivo es empoderar a los padres con herramientas prácticas basadas en evidencia, promoviendo relaciones familiares respetuosas y saludables.`

const riskWarningMessage = "Si sientes que podrías lastimar a tu hijo/a, te urge buscar ayuda profesional. Esta herramienta es solo psicoeducativa."

// categoryKeywords is checked in order; the first category with any
// substring hit wins, so a tantrum during homework still lands in
// berrinches. Accented keywords match accented input only.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{Category: "berrinches", Keywords: []string{"berrinche", "pataleta", "llora", "grita"}},
	{Category: "desobediencia", Keywords: []string{"desobedien", "no hace caso", "no quiere"}},
	{Category: "hermanos", Keywords: []string{"hermano", "pelean", "pelea"}},
	{Category: "pantallas", Keywords: []string{"pantalla", "celular", "tele", "videojuego"}},
	{Category: "tareas", Keywords: []string{"tarea", "escuela", "estudiar", "deberes"}},
	{Category: "sueno", Keywords: []string{"dormir", "sueño", "noche"}},
	{Category: "agresividad", Keywords: []string{"golpea", "agresiv", "muerde"}},
	{Category: "mentiras", Keywords: []string{"miente", "mentira"}},
	{Category: "tdah", Keywords: []string{"tdah", "hiperactiv", "atencion"}},
}

var riskKeywords = []string{
	"golpeo", "golpear", "lastimar", "lastimo", "maltrato", "abuso", "herir", "marcas", "moretones",
}

// detectCategory maps free text to exactly one category label.
// Deterministic, total, first-match-wins in the declared order.
func detectCategory(situation string) string {
	lowered := strings.ToLower(situation)
	for _, group := range categoryKeywords {
		if containsAnyKeyword(lowered, group.Keywords) {
			return group.Category
		}
	}
	return "general"
}

// hasRiskIndicators runs independently of category detection; a risk
// hit never blocks or redacts the consultation.
func hasRiskIndicators(situation string) bool {
	return containsAnyKeyword(strings.ToLower(situation), riskKeywords)
}

func containsAnyKeyword(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// buildConsultationMessages assembles system prompt + bounded history +
// the new user message. Only the most recent maxTurns prior turns are
// forwarded; the full transcript stays in the database.
func buildConsultationMessages(history []ChatTurn, situation string, maxTurns int) []ChatTurn {
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	messages := make([]ChatTurn, 0, len(history)+2)
	messages = append(messages, ChatTurn{Role: "system", Content: consultationSystemPrompt})
	for _, turn := range history {
		role := strings.ToLower(strings.TrimSpace(turn.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		messages = append(messages, ChatTurn{Role: role, Content: content})
	}
	messages = append(messages, ChatTurn{Role: "user", Content: strings.TrimSpace(situation)})
	return messages
}

type consultationResult struct {
	Response       string
	Category       string
	RiskWarning    *string
	ConsultationID *string
}

type configuredClient interface {
	Configured() bool
}

// runConsultation is the per-request pipeline: risk scan, primary or
// fallback response, provenance-blind classification, persistence for
// identified users. The caller has already rejected blank situations.
func (a *App) runConsultation(
	ctx context.Context,
	userID, situation string,
	history []ChatTurn,
) (consultationResult, error) {
	result := consultationResult{}

	if hasRiskIndicators(situation) {
		warning := riskWarningMessage
		result.RiskWarning = &warning
	}

	result.Response = a.generateResponse(ctx, userID, situation, history)
	result.Category = detectCategory(situation)

	if strings.TrimSpace(userID) != "" {
		consultationID, err := a.persistConsultation(ctx, userID, situation, result.Response, result.Category)
		if err != nil {
			return consultationResult{}, err
		}
		result.ConsultationID = &consultationID
	}

	return result, nil
}

// generateResponse tries the completion service once and substitutes
// the local responder on any failure. The selected path is logged for
// operations but never exposed to the caller.
func (a *App) generateResponse(ctx context.Context, userID, situation string, history []ChatTurn) string {
	if gate, ok := a.ai.(configuredClient); ok && !gate.Configured() {
		log.Printf("consultation fallback user_id=%s provenance=fallback-no-config", userID)
		return localFallbackResponse(situation)
	}

	answer, err := a.ai.Complete(ctx, CompletionRequest{
		Messages:    buildConsultationMessages(history, situation, a.cfg.AIHistoryMaxTurns),
		Temperature: a.cfg.AITemperature,
		MaxTokens:   a.cfg.AIMaxTokens,
	})
	if err != nil {
		if !errors.Is(err, ErrCompletionUnavailable) {
			log.Printf("consultation unexpected completion error user_id=%s err=%v", userID, err)
		}
		log.Printf("consultation fallback user_id=%s provenance=fallback-after-error err=%v", userID, err)
		return localFallbackResponse(situation)
	}
	if strings.TrimSpace(answer) == "" {
		log.Printf("consultation fallback user_id=%s provenance=fallback-empty-answer", userID)
		return localFallbackResponse(situation)
	}
	return answer
}

func (a *App) persistConsultation(
	ctx context.Context,
	userID, situation, response, category string,
) (string, error) {
	consultationID := uuid.NewString()
	var createdAt time.Time
	err := a.db.QueryRow(
		ctx,
		`INSERT INTO "Consultation" (id, "userId", situation, response, category, "createdAt")
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING "createdAt"`,
		consultationID,
		userID,
		situation,
		response,
		category,
	).Scan(&createdAt)
	if err != nil {
		return "", err
	}

	if err := a.appendUsageLog(ctx, userID, "consultation", category); err != nil {
		_, _ = a.db.Exec(ctx, `DELETE FROM "Consultation" WHERE id = $1`, consultationID)
		return "", err
	}
	return consultationID, nil
}

func (a *App) appendUsageLog(ctx context.Context, userID, action, module string) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "UsageLog" (id, "userId", action, module, "createdAt")
		 VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(),
		userID,
		action,
		module,
	)
	return err
}
