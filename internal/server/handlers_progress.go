package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (a *App) upsertWeeklyRecord(c *gin.Context) {
	var payload weeklyRecordRequest
	if !mustJSON(c, &payload) {
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}
	if payload.WeekNumber < 1 || payload.WeekNumber > 53 {
		writeError(c, http.StatusBadRequest, "weekNumber must be between 1 and 53")
		return
	}
	if payload.Year < 2000 || payload.Year > 2100 {
		writeError(c, http.StatusBadRequest, "year is out of range")
		return
	}
	if payload.ScreamLevel < 1 || payload.ScreamLevel > 5 {
		writeError(c, http.StatusBadRequest, "screamLevel must be between 1 and 5")
		return
	}
	if payload.AppliedGentleLimits < 0 || payload.PositiveMoments < 0 || payload.Challenges < 0 {
		writeError(c, http.StatusBadRequest, "counters must not be negative")
		return
	}

	// Single-statement upsert on the (userId, weekNumber, year) unique
	// constraint: concurrent submissions converge to last-write-wins
	// without producing duplicate rows.
	record := weeklyRecord{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`INSERT INTO "WeeklyRecord" (
			id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
			"appliedGentleLimits", "positiveMoments", challenges, notes, "createdAt"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT ("userId", "weekNumber", year) DO UPDATE SET
			"screamLevel" = EXCLUDED."screamLevel",
			"usedPunishment" = EXCLUDED."usedPunishment",
			"appliedGentleLimits" = EXCLUDED."appliedGentleLimits",
			"positiveMoments" = EXCLUDED."positiveMoments",
			challenges = EXCLUDED.challenges,
			notes = EXCLUDED.notes
		RETURNING id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
		          "appliedGentleLimits", "positiveMoments", challenges, notes, "createdAt"`,
		uuid.NewString(),
		userID,
		payload.WeekNumber,
		payload.Year,
		payload.ScreamLevel,
		payload.UsedPunishment,
		payload.AppliedGentleLimits,
		payload.PositiveMoments,
		payload.Challenges,
		toOptionalString(payload.Notes),
	).Scan(
		&record.ID,
		&record.UserID,
		&record.WeekNumber,
		&record.Year,
		&record.ScreamLevel,
		&record.UsedPunishment,
		&record.AppliedGentleLimits,
		&record.PositiveMoments,
		&record.Challenges,
		&record.Notes,
		&record.CreatedAt,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save weekly record")
		return
	}

	if err := a.appendUsageLog(c.Request.Context(), userID, "weekly_record", "progress"); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to record usage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

func (a *App) getProgress(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		writeError(c, http.StatusBadRequest, "userId is required")
		return
	}

	weekRaw := strings.TrimSpace(c.Query("week"))
	yearRaw := strings.TrimSpace(c.Query("year"))
	if weekRaw != "" && yearRaw != "" {
		week, err := strconv.Atoi(weekRaw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "week must be an integer")
			return
		}
		year, err := strconv.Atoi(yearRaw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "year must be an integer")
			return
		}
		a.getWeeklyRecordByKey(c, userID, week, year)
		return
	}

	records, err := a.loadWeeklyRecords(c.Request.Context(), userID, 12, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"stats":   computeProgressStats(records),
	})
}

func (a *App) getWeeklyRecordByKey(c *gin.Context, userID string, week, year int) {
	record := weeklyRecord{}
	err := a.db.QueryRow(
		c.Request.Context(),
		`SELECT id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
		        "appliedGentleLimits", "positiveMoments", challenges, notes, "createdAt"
		 FROM "WeeklyRecord"
		 WHERE "userId" = $1 AND "weekNumber" = $2 AND year = $3`,
		userID,
		week,
		year,
	).Scan(
		&record.ID,
		&record.UserID,
		&record.WeekNumber,
		&record.Year,
		&record.ScreamLevel,
		&record.UsedPunishment,
		&record.AppliedGentleLimits,
		&record.PositiveMoments,
		&record.Challenges,
		&record.Notes,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{"record": nil})
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load weekly record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

type progressStats struct {
	TotalRecords         int    `json:"totalRecords"`
	AvgScreamLevel       string `json:"avgScreamLevel"`
	TotalPositiveMoments int    `json:"totalPositiveMoments"`
	TotalChallenges      int    `json:"totalChallenges"`
	PunishmentRate       string `json:"punishmentRate"`
}

func computeProgressStats(records []weeklyRecord) progressStats {
	stats := progressStats{
		TotalRecords:   len(records),
		AvgScreamLevel: "0.0",
		PunishmentRate: "0",
	}
	if len(records) == 0 {
		return stats
	}

	screamSum := 0
	punishmentCount := 0
	for _, record := range records {
		screamSum += record.ScreamLevel
		stats.TotalPositiveMoments += record.PositiveMoments
		stats.TotalChallenges += record.Challenges
		if record.UsedPunishment {
			punishmentCount++
		}
	}

	stats.AvgScreamLevel = strconv.FormatFloat(
		float64(screamSum)/float64(len(records)), 'f', 1, 64)
	stats.PunishmentRate = strconv.FormatInt(
		int64(math.Round(float64(punishmentCount)/float64(len(records))*100)), 10)
	return stats
}
