package postgres

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"toolszone/internal/config"
)

var sslmodeKeyword = regexp.MustCompile(`(^|\s)sslmode\s*=`)

// DSN returns the pgx connection string for cfg. Host may hold a complete
// connection string, either a postgres:// URL or libpq keyword/value pairs;
// SSLMode is added to it when the string does not set one. Otherwise the
// string is built from the individual fields.
func DSN(cfg config.PostgresConfig) (string, error) {
	var dsn string
	switch {
	case strings.HasPrefix(cfg.Host, "postgres://") || strings.HasPrefix(cfg.Host, "postgresql://"):
		u, err := url.Parse(cfg.Host)
		if err != nil {
			return "", fmt.Errorf("postgres url: %w", err)
		}
		if q := u.Query(); cfg.SSLMode != "" && q.Get("sslmode") == "" {
			q.Set("sslmode", cfg.SSLMode)
			u.RawQuery = q.Encode()
		}
		dsn = u.String()
	case strings.Contains(cfg.Host, "="):
		dsn = strings.TrimSpace(cfg.Host)
		if cfg.SSLMode != "" && !sslmodeKeyword.MatchString(dsn) {
			dsn += " sslmode=" + quoteValue(cfg.SSLMode)
		}
	default:
		var err error
		if dsn, err = fromFields(cfg); err != nil {
			return "", err
		}
	}

	if _, err := pgx.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("postgres dsn: %w", err)
	}
	return dsn, nil
}

func fromFields(cfg config.PostgresConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("postgres host is empty")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("postgres database is empty")
	}
	if cfg.User == "" {
		return "", fmt.Errorf("postgres user is empty")
	}

	host, port := splitHost(cfg.Host, cfg.Port)
	pairs := []string{
		"host=" + quoteValue(host),
		"port=" + strconv.Itoa(port),
		"dbname=" + quoteValue(cfg.Database),
		"user=" + quoteValue(cfg.User),
	}
	if cfg.Password != "" {
		pairs = append(pairs, "password="+quoteValue(cfg.Password))
	}
	if cfg.SSLMode != "" {
		pairs = append(pairs, "sslmode="+quoteValue(cfg.SSLMode))
	}
	return strings.Join(pairs, " "), nil
}

// splitHost accepts "db", "db:6543", "::1", "[::1]" and "[::1]:6543".
// A port inside host wins over the configured one.
func splitHost(host string, port int) (string, int) {
	if port == 0 {
		port = 5432
	}
	if h, p, err := net.SplitHostPort(host); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			return h, n
		}
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), port
}

// quoteValue quotes v for a keyword/value connection string when it is
// empty or holds spaces, quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
