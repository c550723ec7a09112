package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"crianza/backend/internal/config"
	"crianza/backend/internal/db"
)

var (
	testPool              *pgxpool.Pool
	baseTestConfig        config.Config
	integrationDBReady    bool
	integrationSkipReason string
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	baseTestConfig = newTestConfig()

	testDatabaseURL := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if testDatabaseURL == "" {
		integrationSkipReason = "integration tests skipped: TEST_DATABASE_URL is not set"
		fmt.Fprintln(os.Stderr, integrationSkipReason)
		os.Exit(m.Run())
	}
	testDatabaseURL = withSimpleProtocol(testDatabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.Connect(ctx, testDatabaseURL)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration test setup failed: cannot connect TEST_DATABASE_URL: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	err = pool.Ping(ctx)
	cancel()
	if err != nil {
		pool.Close()
		fmt.Fprintf(os.Stderr, "integration test setup failed: database ping failed: %v\n", err)
		os.Exit(1)
	}

	if err := verifyRequiredTables(pool); err != nil {
		pool.Close()
		fmt.Fprintf(os.Stderr, "integration test setup failed: %v\n", err)
		os.Exit(1)
	}

	testPool = pool
	integrationDBReady = true

	exitCode := m.Run()
	testPool.Close()
	os.Exit(exitCode)
}

func withSimpleProtocol(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	queries := parsed.Query()
	queries.Set("default_query_exec_mode", "simple_protocol")
	parsed.RawQuery = queries.Encode()
	return parsed.String()
}

func newTestConfig() config.Config {
	cfg := config.Config{
		AppEnv:            "test",
		AppName:           "Crianza API Test",
		APIPrefix:         "/api",
		AppPort:           "0",
		DatabaseURL:       "test",
		GroqModel:         "llama-3.1-8b-instant",
		GroqBaseURL:       "https://api.groq.com/openai/v1",
		AITemperature:     0.7,
		AIMaxTokens:       1024,
		AITimeoutSeconds:  20,
		AIHistoryMaxTurns: 20,
		AdminJWTSecret:    "test-admin-secret-1234567890",
		CORSAllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
	}

	if v := strings.TrimSpace(os.Getenv("TEST_ADMIN_JWT_SECRET")); v != "" {
		cfg.AdminJWTSecret = v
	}
	return cfg
}

func verifyRequiredTables(pool *pgxpool.Pool) error {
	required := []string{
		"AnonymousUser",
		"Consultation",
		"WeeklyRecord",
		"Evaluation",
		"SavedPhrase",
		"UsageLog",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	missing := make([]string, 0)
	for _, table := range required {
		var exists bool
		if err := pool.QueryRow(
			ctx,
			`SELECT EXISTS (
				SELECT 1
				FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`,
			table,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to validate schema table %q: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"missing required tables: %s. Apply scripts/schema.sql to TEST_DATABASE_URL before running integration tests",
			strings.Join(missing, ", "),
		)
	}
	return nil
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if !integrationDBReady {
		if integrationSkipReason == "" {
			integrationSkipReason = "integration tests skipped: TEST_DATABASE_URL is not configured"
		}
		t.Skip(integrationSkipReason)
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithAI(t, &MockCompletionClient{Answer: "respuesta de prueba"})
}

func newTestRouterWithAI(t *testing.T, ai CompletionClient) *gin.Engine {
	t.Helper()
	requireIntegration(t)
	return New(baseTestConfig, testPool, ai).Router()
}

func newTestRouterWithConfig(t *testing.T, cfg config.Config, ai CompletionClient) *gin.Engine {
	t.Helper()
	requireIntegration(t)
	return New(cfg, testPool, ai).Router()
}

func resetDatabase(t *testing.T) {
	t.Helper()
	requireIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := testPool.Exec(
		ctx,
		`TRUNCATE TABLE
			"UsageLog",
			"SavedPhrase",
			"Evaluation",
			"WeeklyRecord",
			"Consultation",
			"AnonymousUser"
		RESTART IDENTITY CASCADE`,
	)
	if err != nil {
		t.Fatalf("reset database: %v", err)
	}
}

func seedParticipant(t *testing.T, code string) string {
	t.Helper()
	requireIntegration(t)
	if strings.TrimSpace(code) == "" {
		code = "CR-" + strings.ToUpper(testID()[:8])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID := testID()
	_, err := testPool.Exec(
		ctx,
		`INSERT INTO "AnonymousUser" (id, code, "ageRange", "childAgeRange", country, "createdAt")
		 VALUES ($1, $2, '25-34', '3-5', 'España', NOW())`,
		userID,
		code,
	)
	if err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return userID
}

func seedConsultationRow(t *testing.T, userID, situation, category string) string {
	t.Helper()
	requireIntegration(t)
	if strings.TrimSpace(category) == "" {
		category = "general"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	consultationID := testID()
	_, err := testPool.Exec(
		ctx,
		`INSERT INTO "Consultation" (id, "userId", situation, response, category, "createdAt")
		 VALUES ($1, $2, $3, 'respuesta sembrada', $4, NOW())`,
		consultationID,
		userID,
		situation,
		category,
	)
	if err != nil {
		t.Fatalf("seed consultation: %v", err)
	}
	return consultationID
}

func seedWeeklyRecordRow(t *testing.T, userID string, week, year, screamLevel int, usedPunishment bool) string {
	t.Helper()
	requireIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recordID := testID()
	_, err := testPool.Exec(
		ctx,
		`INSERT INTO "WeeklyRecord" (
			id, "userId", "weekNumber", year, "screamLevel", "usedPunishment",
			"appliedGentleLimits", "positiveMoments", challenges, "createdAt"
		) VALUES ($1, $2, $3, $4, $5, $6, 2, 3, 1, NOW())`,
		recordID,
		userID,
		week,
		year,
		screamLevel,
		usedPunishment,
	)
	if err != nil {
		t.Fatalf("seed weekly record: %v", err)
	}
	return recordID
}

func seedEvaluationRow(t *testing.T, userID, evalType string, level int) string {
	t.Helper()
	requireIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	evaluationID := testID()
	_, err := testPool.Exec(
		ctx,
		`INSERT INTO "Evaluation" (
			id, "userId", type, "knowledgeLevel", "confidenceLevel", "emotionalRegulation",
			"communicationQuality", "overallSatisfaction", "stressLevel", "supportNetwork", "createdAt"
		) VALUES ($1, $2, $3, $4, $4, $4, $4, $4, $4, $4, NOW())`,
		evaluationID,
		userID,
		evalType,
		level,
	)
	if err != nil {
		t.Fatalf("seed evaluation: %v", err)
	}
	return evaluationID
}

func signAdminToken(t *testing.T, cfg config.Config, overrides map[string]any) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "researcher",
		"exp": time.Now().UTC().Add(1 * time.Hour).Unix(),
		"iat": time.Now().UTC().Add(-1 * time.Minute).Unix(),
	}
	if strings.TrimSpace(cfg.AdminJWTAudience) != "" {
		claims["aud"] = cfg.AdminJWTAudience
	}
	if strings.TrimSpace(cfg.AdminJWTIssuer) != "" {
		claims["iss"] = cfg.AdminJWTIssuer
	}
	for key, value := range overrides {
		if value == nil {
			delete(claims, key)
			continue
		}
		claims[key] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.AdminJWTSecret))
	if err != nil {
		t.Fatalf("sign admin token: %v", err)
	}
	return signed
}

func performRequest(
	t *testing.T,
	router http.Handler,
	method, targetPath, token string,
	body any,
	headers map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, targetPath, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSONMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response JSON: %v; body=%s", err, rec.Body.String())
	}
	return payload
}

func responseDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeJSONMap(t, rec)
	detail, _ := body["detail"].(string)
	return detail
}

func testID() string {
	return uuid.NewString()
}
