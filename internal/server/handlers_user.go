package server

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const participantCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newParticipantCode mints a display code in the CR-XXXXXXXX format
// participants write down to return to their data later.
func newParticipantCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = participantCodeAlphabet[int(b)%len(participantCodeAlphabet)]
	}
	return "CR-" + string(buf), nil
}

// createOrResolveUser is find-or-create, never create-or-fail: a known
// code returns the existing participant unchanged.
func (a *App) createOrResolveUser(c *gin.Context) {
	var payload userCreateRequest
	if !mustJSON(c, &payload) {
		return
	}

	code := strings.TrimSpace(payload.Code)
	if code != "" {
		user, err := a.loadUserByCode(c.Request.Context(), code)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"user": user, "isNew": false})
			return
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusInternalServerError, "Failed to resolve user")
			return
		}
	}

	newCode := code
	if newCode == "" {
		minted, err := newParticipantCode()
		if err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to generate participant code")
			return
		}
		newCode = minted
	}

	user := anonymousUser{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`INSERT INTO "AnonymousUser" (id, code, "ageRange", "childAgeRange", country, "createdAt")
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, code, "ageRange", "childAgeRange", country, "createdAt"`,
		uuid.NewString(),
		newCode,
		toOptionalString(payload.AgeRange),
		toOptionalString(payload.ChildAgeRange),
		toOptionalString(payload.Country),
	).Scan(&user.ID, &user.Code, &user.AgeRange, &user.ChildAgeRange, &user.Country, &user.CreatedAt)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "isNew": true})
}

func (a *App) getUserByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		writeError(c, http.StatusBadRequest, "code is required")
		return
	}

	user, err := a.loadUserByCode(c.Request.Context(), code)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}

	ctx := c.Request.Context()
	consultations, err := a.loadConsultations(ctx, user.ID, 20, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load consultations")
		return
	}
	weeklyRecords, err := a.loadWeeklyRecords(ctx, user.ID, 12, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load weekly records")
		return
	}
	evaluations, err := a.loadEvaluations(ctx, user.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load evaluations")
		return
	}
	savedPhrases, err := a.loadSavedPhrases(ctx, user.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load saved phrases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"code":          user.Code,
			"ageRange":      user.AgeRange,
			"childAgeRange": user.ChildAgeRange,
			"country":       user.Country,
			"createdAt":     user.CreatedAt,
			"consultations": consultations,
			"weeklyRecords": weeklyRecords,
			"evaluations":   evaluations,
			"savedPhrases":  savedPhrases,
		},
	})
}

func validCodeFormat(code string) bool {
	if len(code) != 11 || !strings.HasPrefix(code, "CR-") {
		return false
	}
	for _, r := range code[3:] {
		if !strings.ContainsRune(participantCodeAlphabet, r) {
			return false
		}
	}
	return true
}
