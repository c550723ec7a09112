package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (a *App) getPhrases(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		entry, ok := phraseCatalog[category]
		if !ok {
			writeError(c, http.StatusNotFound, "Phrase category not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": entry})
		return
	}

	summaries := make([]gin.H, 0, len(phraseCatalogOrder))
	for _, key := range phraseCatalogOrder {
		entry := phraseCatalog[key]
		summaries = append(summaries, gin.H{
			"id":          key,
			"title":       entry.Title,
			"description": entry.Description,
			"count":       len(entry.Phrases),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": summaries,
		"allPhrases": phraseCatalog,
	})
}

func (a *App) savePhrase(c *gin.Context) {
	var payload phraseSaveRequest
	if !mustJSON(c, &payload) {
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	phrase := strings.TrimSpace(payload.Phrase)
	if userID == "" || phrase == "" {
		writeError(c, http.StatusBadRequest, "userId and phrase are required")
		return
	}

	category := strings.TrimSpace(payload.Category)
	if category == "" {
		category = "general"
	}

	record := savedPhraseRecord{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`INSERT INTO "SavedPhrase" (id, "userId", phrase, category, context, "createdAt")
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, "userId", phrase, category, context, "createdAt"`,
		uuid.NewString(),
		userID,
		phrase,
		category,
		toOptionalString(payload.Context),
	).Scan(&record.ID, &record.UserID, &record.Phrase, &record.Category, &record.Context, &record.CreatedAt)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save phrase")
		return
	}

	c.JSON(http.StatusOK, gin.H{"savedPhrase": record})
}

func (a *App) deleteSavedPhrase(c *gin.Context) {
	phraseID := strings.TrimSpace(c.Query("id"))
	if phraseID == "" {
		writeError(c, http.StatusBadRequest, "id is required")
		return
	}

	tag, err := a.db.Exec(
		c.Request.Context(),
		`DELETE FROM "SavedPhrase" WHERE id = $1`,
		phraseID,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to delete phrase")
		return
	}
	if tag.RowsAffected() == 0 {
		writeError(c, http.StatusNotFound, "Saved phrase not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
