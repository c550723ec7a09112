package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crianza/backend/internal/config"
)

type App struct {
	cfg config.Config
	db  *pgxpool.Pool
	ai  CompletionClient
}

func New(cfg config.Config, db *pgxpool.Pool, ai CompletionClient) *App {
	return &App{cfg: cfg, db: db, ai: ai}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)

	api.POST("/user", a.createOrResolveUser)
	api.GET("/user", a.getUserByCode)

	api.POST("/consultation", a.submitConsultation)
	api.GET("/consultation", a.listConsultations)
	api.PATCH("/consultation", a.updateConsultationHelpful)

	api.POST("/progress", a.upsertWeeklyRecord)
	api.GET("/progress", a.getProgress)

	api.POST("/evaluation", a.upsertEvaluation)
	api.GET("/evaluation", a.getEvaluations)

	api.GET("/phrases", a.getPhrases)
	api.POST("/phrases", a.savePhrase)
	api.DELETE("/phrases", a.deleteSavedPhrase)

	api.GET("/export", a.exportUserData)
	api.GET("/tips", a.getQuickTip)

	if a.cfg.AdminEnabled() {
		admin := api.Group("/admin")
		admin.Use(a.adminAuthMiddleware())
		admin.GET("/participants", a.adminListParticipants)
		admin.GET("/usage", a.adminUsageStats)
	}

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "crianza-api",
	})
}

// adminAuthMiddleware guards the research endpoints with an HS256 bearer
// token. Participants never authenticate; their identity is the display
// code they carry.
func (a *App) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != "HS256" {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(a.cfg.AdminJWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		if a.cfg.AdminJWTAudience != "" && !claimHasAudience(claims["aud"], a.cfg.AdminJWTAudience) {
			writeError(c, http.StatusUnauthorized, "Invalid token audience")
			return
		}
		if a.cfg.AdminJWTIssuer != "" {
			issuer, _ := claims["iss"].(string)
			if issuer != a.cfg.AdminJWTIssuer {
				writeError(c, http.StatusUnauthorized, "Invalid token issuer")
				return
			}
		}

		c.Next()
	}
}

func claimHasAudience(value any, audience string) bool {
	switch v := value.(type) {
	case string:
		return v == audience
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, item := range v {
			if item == audience {
				return true
			}
		}
	}
	return false
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func toOptionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}
