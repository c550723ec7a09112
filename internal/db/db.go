package db

import (
	"context"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connection-string query parameters libpq or pgx understand. The web
// app's Prisma-era configs carry extras (schema, connection_limit) that
// pgx rejects, so anything unknown is stripped before parsing.
var supportedPGQueryKeys = map[string]struct{}{
	"application_name":              {},
	"channel_binding":               {},
	"client_encoding":               {},
	"connect_timeout":               {},
	"default_query_exec_mode":       {},
	"description_cache_capacity":    {},
	"keepalives":                    {},
	"keepalives_count":              {},
	"keepalives_idle":               {},
	"keepalives_interval":           {},
	"options":                       {},
	"passfile":                      {},
	"pool_health_check_period":      {},
	"pool_max_conn_idle_time":       {},
	"pool_max_conn_lifetime":        {},
	"pool_max_conn_lifetime_jitter": {},
	"pool_max_conns":                {},
	"pool_min_conns":                {},
	"service":                       {},
	"sslcert":                       {},
	"sslcrl":                        {},
	"sslkey":                        {},
	"sslmode":                       {},
	"sslpassword":                   {},
	"sslrootcert":                   {},
	"statement_cache_capacity":      {},
	"target_session_attrs":          {},
}

func Connect(ctx context.Context, rawURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(NormalizeDatabaseURL(rawURL))
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

func NormalizeDatabaseURL(rawURL string) string {
	normalized := strings.TrimSpace(rawURL)
	for _, prefix := range []string{"prisma+postgres://", "postgresql://"} {
		if strings.HasPrefix(normalized, prefix) {
			normalized = "postgres://" + strings.TrimPrefix(normalized, prefix)
			break
		}
	}

	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Scheme != "postgres" {
		return normalized
	}

	filtered := make(url.Values)
	for key, values := range parsed.Query() {
		if _, ok := supportedPGQueryKeys[key]; !ok {
			continue
		}
		for _, v := range values {
			filtered.Add(key, v)
		}
	}
	parsed.RawQuery = filtered.Encode()
	return parsed.String()
}
