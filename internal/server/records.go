package server

import (
	"context"
	"time"
)

type anonymousUser struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	AgeRange      *string   `json:"ageRange"`
	ChildAgeRange *string   `json:"childAgeRange"`
	Country       *string   `json:"country"`
	CreatedAt     time.Time `json:"createdAt"`
}

type consultationRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Situation string    `json:"situation"`
	Response  string    `json:"response"`
	Category  string    `json:"category"`
	Helpful   *bool     `json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
}

type weeklyRecord struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	WeekNumber          int       `json:"weekNumber"`
	Year                int       `json:"year"`
	ScreamLevel         int       `json:"screamLevel"`
	UsedPunishment      bool      `json:"usedPunishment"`
	AppliedGentleLimits int       `json:"appliedGentleLimits"`
	PositiveMoments     int       `json:"positiveMoments"`
	Challenges          int       `json:"challenges"`
	Notes               *string   `json:"notes"`
	CreatedAt           time.Time `json:"createdAt"`
}

type evaluationRecord struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Type                 string    `json:"type"`
	KnowledgeLevel       int       `json:"knowledgeLevel"`
	ConfidenceLevel      int       `json:"confidenceLevel"`
	EmotionalRegulation  int       `json:"emotionalRegulation"`
	CommunicationQuality int       `json:"communicationQuality"`
	OverallSatisfaction  int       `json:"overallSatisfaction"`
	StressLevel          int       `json:"stressLevel"`
	SupportNetwork       int       `json:"supportNetwork"`
	Notes                *string   `json:"notes"`
	CreatedAt            time.Time `json:"createdAt"`
}

type savedPhraseRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Phrase    string    `json:"phrase"`
	Category  string    `json:"category"`
	Context   *string   `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *App) loadUserByID(ctx context.Context, userID string) (anonymousUser, error) {
	user := anonymousUser{}
	err := a.db.QueryRow(
		ctx,
		`SELECT id, code, "ageRange", "childAgeRange", country, "createdAt"
		 FROM "AnonymousUser" WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Code, &user.AgeRange, &user.ChildAgeRange, &user.Country, &user.CreatedAt)
	return user, err
}

func (a *App) loadUserByCode(ctx context.Context, code string) (anonymousUser, error) {
	user := anonymousUser{}
	err := a.db.QueryRow(
		ctx,
		`SELECT id, code, "ageRange", "childAgeRange", country, "createdAt"
		 FROM "AnonymousUser" WHERE code = $1`,
		code,
	).Scan(&user.ID, &user.Code, &user.AgeRange, &user.ChildAgeRange, &user.Country, &user.CreatedAt)
	return user, err
}

// loadConsultations lists a user's consultations. limit <= 0 means all
// rows; newestFirst false yields chronological order for exports.
func (a *App) loadConsultations(ctx context.Context, userID string, limit int, newestFirst bool) ([]consultationRecord, error) {
	query := `SELECT id, "userId", situation, response, category, helpful, "createdAt"
	 FROM "Consultation"
	 WHERE "userId" = $1
	 ORDER BY "createdAt" ASC`
	if newestFirst {
		query = `SELECT id, "userId", situation, response, category, helpful, "createdAt"
	 FROM "Consultation"
	 WHERE "userId" = $1
	 ORDER BY "createdAt" DESC`
	}
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]consultationRecord, 0, 16)
	for rows.Next() {
		record := consultationRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Situation,
			&record.Response,
			&record.Category,
			&record.Helpful,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

func (a *App) loadWeeklyRecords(ctx context.Context, userID string, limit int, newestFirst bool) ([]weeklyRecord, error) {
	query := `SELECT id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
	        "appliedGentleLimits", "positiveMoments", challenges, notes, "createdAt"
	 FROM "WeeklyRecord"
	 WHERE "userId" = $1
	 ORDER BY year ASC, "weekNumber" ASC`
	if newestFirst {
		query = `SELECT id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
	        "appliedGentleLimits", "positiveMoments", challenges, notes, "createdAt"
	 FROM "WeeklyRecord"
	 WHERE "userId" = $1
	 ORDER BY year DESC, "weekNumber" DESC`
	}
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]weeklyRecord, 0, 12)
	for rows.Next() {
		record := weeklyRecord{}
		if err := rows.Scan(
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
		); err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

func (a *App) loadEvaluations(ctx context.Context, userID string) ([]evaluationRecord, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT id, "userId", type, "knowledgeLevel", "confidenceLevel", "emotionalRegulation",
		        "communicationQuality", "overallSatisfaction", "stressLevel", "supportNetwork",
		        notes, "createdAt"
		 FROM "Evaluation"
		 WHERE "userId" = $1
		 ORDER BY type ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]evaluationRecord, 0, 2)
	for rows.Next() {
		record := evaluationRecord{}
		if err := rows.Scan(
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
		); err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

func (a *App) loadSavedPhrases(ctx context.Context, userID string) ([]savedPhraseRecord, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT id, "userId", phrase, category, context, "createdAt"
		 FROM "SavedPhrase"
		 WHERE "userId" = $1
		 ORDER BY "createdAt" DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]savedPhraseRecord, 0, 8)
	for rows.Next() {
		record := savedPhraseRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Phrase,
			&record.Category,
			&record.Context,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, rows.Err()
}
