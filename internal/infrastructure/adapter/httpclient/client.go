// Package httpclient builds the resty clients shared by the provider adapters
package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// ErrInvalidResponse is returned when a provider answers with something that is not JSON
var ErrInvalidResponse = errors.New("invalid provider response")

// Config holds transport settings for one provider
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a resty client with a base URL, a hard timeout and request logging.
// Requests are never retried: provider calls are not idempotent.
func New(cfg Config, logger core.Logger) *resty.Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("Provider response", map[string]any{
			"method":   resp.Request.Method,
			"path":     resp.Request.RawRequest.URL.Path,
			"status":   resp.StatusCode(),
			"duration": resp.Time().String(),
		})
		return nil
	})
	return client
}

// JSON returns the parsed response body. Non-JSON bodies are an error
// whatever the status code; callers decide what a JSON error body means.
func JSON(resp *resty.Response) (gjson.Result, error) {
	body := resp.String()
	if !gjson.Valid(body) {
		return gjson.Result{}, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode())
	}
	return gjson.Parse(body), nil
}

// FirstString returns the first non-empty string found at paths
func FirstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := doc.Get(p).String(); s != "" {
			return s
		}
	}
	return ""
}

type restyLogger struct {
	logger core.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}
