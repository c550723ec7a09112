package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type participantSummary struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	AgeRange          *string   `json:"ageRange"`
	ChildAgeRange     *string   `json:"childAgeRange"`
	Country           *string   `json:"country"`
	CreatedAt         time.Time `json:"createdAt"`
	ConsultationCount int       `json:"consultationCount"`
	WeeklyRecordCount int       `json:"weeklyRecordCount"`
	EvaluationCount   int       `json:"evaluationCount"`
}

func (a *App) adminListParticipants(c *gin.Context) {
	rows, err := a.db.Query(c.Request.Context(),
		`SELECT u.id, u.code, u."ageRange", u."childAgeRange", u.country, u."createdAt",
		        (SELECT COUNT(*) FROM "Consultation" co WHERE co."userId" = u.id),
		        (SELECT COUNT(*) FROM "WeeklyRecord" wr WHERE wr."userId" = u.id),
		        (SELECT COUNT(*) FROM "Evaluation" ev WHERE ev."userId" = u.id)
		 FROM "AnonymousUser" u
		 ORDER BY u."createdAt" ASC`,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to list participants")
		return
	}
	defer rows.Close()

	participants := make([]participantSummary, 0, 32)
	for rows.Next() {
		p := participantSummary{}
		if err := rows.Scan(
			&p.ID,
			&p.Code,
			&p.AgeRange,
			&p.ChildAgeRange,
			&p.Country,
			&p.CreatedAt,
			&p.ConsultationCount,
			&p.WeeklyRecordCount,
			&p.EvaluationCount,
		); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to list participants")
			return
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to list participants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"total":        len(participants),
	})
}

type usageBucket struct {
	Action string  `json:"action"`
	Module *string `json:"module"`
	Count  int     `json:"count"`
}

func (a *App) adminUsageStats(c *gin.Context) {
	rows, err := a.db.Query(c.Request.Context(),
		`SELECT action, module, COUNT(*)
		 FROM "UsageLog"
		 GROUP BY action, module
		 ORDER BY COUNT(*) DESC, action ASC`,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load usage stats")
		return
	}
	defer rows.Close()

	buckets := make([]usageBucket, 0, 16)
	total := 0
	for rows.Next() {
		b := usageBucket{}
		if err := rows.Scan(&b.Action, &b.Module, &b.Count); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load usage stats")
			return
		}
		total += b.Count
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load usage stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buckets": buckets,
		"total":   total,
	})
}
