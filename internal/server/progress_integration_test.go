package server

import (
	"context"
	"net/http"
	"testing"
)

func TestUpsertWeeklyRecordCreatesAndReplaces(t *testing.T) {
	resetDatabase(t)
	userID := seedParticipant(t, "")
	router := newTestRouter(t)

	first := performRequest(t, router, http.MethodPost, "/api/progress", "", map[string]any{
		"userId":              userID,
		"weekNumber":          10,
		"year":                2026,
		"screamLevel":         4,
		"usedPunishment":      true,
		"appliedGentleLimits": 1,
		"positiveMoments":     2,
		"challenges":          3,
	}, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", first.Code, first.Body.String())
	}
	firstBody := decodeJSONMap(t, first)
	firstRecord, _ := firstBody["record"].(map[string]any)
	if firstRecord == nil {
		t.Fatalf("missing record in response: %s", first.Body.String())
	}

	// Same (user, week, year) must replace, not duplicate.
	second := performRequest(t, router, http.MethodPost, "/api/progress", "", map[string]any{
		"userId":              userID,
		"weekNumber":          10,
		"year":                2026,
		"screamLevel":         2,
		"usedPunishment":      false,
		"appliedGentleLimits": 4,
		"positiveMoments":     5,
		"challenges":          1,
		"notes":               "mejor semana",
	}, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", second.Code, second.Body.String())
	}
	secondBody := decodeJSONMap(t, second)
	secondRecord, _ := secondBody["record"].(map[string]any)
	if secondRecord["id"] != firstRecord["id"] {
		t.Fatalf("upsert must keep the original row id: %v vs %v", secondRecord["id"], firstRecord["id"])
	}
	if secondRecord["screamLevel"] != float64(2) {
		t.Fatalf("expected replaced screamLevel=2, got %v", secondRecord["screamLevel"])
	}
	if secondRecord["notes"] != "mejor semana" {
		t.Fatalf("expected notes to be stored, got %v", secondRecord["notes"])
	}

	var count int
	if err := testPool.QueryRow(
		context.Background(),
		`SELECT COUNT(*) FROM "WeeklyRecord" WHERE "userId" = $1`,
		userID,
	).Scan(&count); err != nil {
		t.Fatalf("count weekly records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 weekly record, got %d", count)
	}
}

func TestUpsertWeeklyRecordValidation(t *testing.T) {
	resetDatabase(t)
	userID := seedParticipant(t, "")
	router := newTestRouter(t)

	cases := []struct {
		name   string
		body   map[string]any
		detail string
	}{
		{
			name:   "missing user",
			body:   map[string]any{"weekNumber": 10, "year": 2026, "screamLevel": 3},
			detail: "userId is required",
		},
		{
			name:   "week zero",
			body:   map[string]any{"userId": userID, "weekNumber": 0, "year": 2026, "screamLevel": 3},
			detail: "weekNumber must be between 1 and 53",
		},
		{
			name:   "week too large",
			body:   map[string]any{"userId": userID, "weekNumber": 54, "year": 2026, "screamLevel": 3},
			detail: "weekNumber must be between 1 and 53",
		},
		{
			name:   "scream level zero",
			body:   map[string]any{"userId": userID, "weekNumber": 10, "year": 2026, "screamLevel": 0},
			detail: "screamLevel must be between 1 and 5",
		},
		{
			name:   "scream level six",
			body:   map[string]any{"userId": userID, "weekNumber": 10, "year": 2026, "screamLevel": 6},
			detail: "screamLevel must be between 1 and 5",
		},
		{
			name: "negative counter",
			body: map[string]any{
				"userId": userID, "weekNumber": 10, "year": 2026, "screamLevel": 3, "challenges": -1,
			},
			detail: "counters must not be negative",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := performRequest(t, router, http.MethodPost, "/api/progress", "", tc.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
			}
			if detail := responseDetail(t, rec); detail != tc.detail {
				t.Fatalf("unexpected detail: %q", detail)
			}
		})
	}
}

func TestUpsertWeeklyRecordBoundaryValuesAccepted(t *testing.T) {
	resetDatabase(t)
	userID := seedParticipant(t, "")
	router := newTestRouter(t)

	for _, level := range []int{1, 5} {
		rec := performRequest(t, router, http.MethodPost, "/api/progress", "", map[string]any{
			"userId":      userID,
			"weekNumber":  level,
			"year":        2026,
			"screamLevel": level,
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("screamLevel=%d should be accepted, got %d body=%s", level, rec.Code, rec.Body.String())
		}
	}
}

func TestGetProgressReturnsRecentRecordsWithStats(t *testing.T) {
	resetDatabase(t)
	userID := seedParticipant(t, "")
	seedWeeklyRecordRow(t, userID, 10, 2026, 2, false)
	seedWeeklyRecordRow(t, userID, 11, 2026, 4, true)
	seedWeeklyRecordRow(t, userID, 12, 2026, 3, false)

	rec := performRequest(t, newTestRouter(t), http.MethodGet, "/api/progress?userId="+userID, "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	records, _ := body["records"].([]any)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	newest, _ := records[0].(map[string]any)
	if newest["weekNumber"] != float64(12) {
		t.Fatalf("records must be newest first, got week %v", newest["weekNumber"])
	}

	stats, _ := body["stats"].(map[string]any)
	if stats == nil {
		t.Fatalf("missing stats in response: %s", rec.Body.String())
	}
	if stats["avgScreamLevel"] != "3.0" {
		t.Fatalf("avgScreamLevel = %v, want \"3.0\"", stats["avgScreamLevel"])
	}
	if stats["punishmentRate"] != "33" {
		t.Fatalf("punishmentRate = %v, want \"33\"", stats["punishmentRate"])
	}
}

func TestGetProgressByWeekAndYear(t *testing.T) {
	resetDatabase(t)
	userID := seedParticipant(t, "")
	seedWeeklyRecordRow(t, userID, 10, 2026, 2, false)

	rec := performRequest(t, newTestRouter(t), http.MethodGet,
		"/api/progress?userId="+userID+"&week=10&year=2026", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeJSONMap(t, rec)
	record, _ := body["record"].(map[string]any)
	if record == nil || record["weekNumber"] != float64(10) {
		t.Fatalf("expected week 10 record, body=%s", rec.Body.String())
	}

	missing := performRequest(t, newTestRouter(t), http.MethodGet,
		"/api/progress?userId="+userID+"&week=11&year=2026", "", nil, nil)
	if missing.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", missing.Code, missing.Body.String())
	}
	missingBody := decodeJSONMap(t, missing)
	if value, present := missingBody["record"]; !present || value != nil {
		t.Fatalf("expected record:null for missing week, body=%s", missing.Body.String())
	}
}
