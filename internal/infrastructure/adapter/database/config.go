package database

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Config holds the PostgreSQL connection settings of the ledger store
type Config struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	ApplicationName string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// QueryTimeout bounds pings and is sent as the session statement_timeout
	QueryTimeout  time.Duration
	SlowThreshold time.Duration
	LogLevel      string
	RetryAttempts int
	RetryDelay    time.Duration
	// TxRetries bounds how often a unit of work is replayed after a serialization failure
	TxRetries int
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Driver == "postgres", "unsupported database driver: %q", c.Driver)
	check(c.Host != "", "database host is required")
	check(c.Port > 0 && c.Port <= 65535, "invalid port number: %d", c.Port)
	check(c.Username != "", "database username is required")
	check(c.Database != "", "database name is required")
	check(slices.Contains(sslModes, c.SSLMode), "invalid SSL mode: %q", c.SSLMode)
	check(c.MaxOpenConns > 0, "max open connections must be positive, got: %d", c.MaxOpenConns)
	check(c.MaxIdleConns > 0 && c.MaxIdleConns <= c.MaxOpenConns,
		"max idle connections must be in 1..%d, got: %d", c.MaxOpenConns, c.MaxIdleConns)
	check(c.QueryTimeout > 0, "query timeout must be positive")
	check(c.RetryAttempts >= 1, "retry attempts must be at least 1, got: %d", c.RetryAttempts)
	check(c.RetryDelay >= 0, "retry delay must be non-negative, got: %s", c.RetryDelay)

	return errors.Join(problems...)
}

// DSN returns the connection URL. Unknown query parameters such as
// statement_timeout are passed to the server as session settings by pgx.
func (c *Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.ApplicationName != "" {
		q.Set("application_name", c.ApplicationName)
	}
	if c.QueryTimeout > 0 {
		q.Set("statement_timeout", fmt.Sprint(c.QueryTimeout.Milliseconds()))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Redacted returns the DSN with the password masked, for logs
func (c *Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return ""
	}
	return u.Redacted()
}
