// Package tokopay implements the payment gateway port against the TokoPay API
package tokopay

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/httpclient"
)

const serviceName = "tokopay"

// ErrNotConfigured is returned when merchant credentials are missing
var ErrNotConfigured = errors.New("tokopay merchant is not configured")

// Config holds TokoPay credentials
type Config struct {
	BaseURL    string
	MerchantID string
	Secret     string
	Timeout    time.Duration
}

// Client talks to the TokoPay order API
type Client struct {
	http   *resty.Client
	cfg    Config
	logger core.Logger
}

// NewClient creates a TokoPay client
func NewClient(cfg Config, logger core.Logger) *Client {
	return &Client{
		http:   httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// order opens (or re-reads) the charge for refId. TokoPay answers both with the same endpoint.
func (c *Client) order(ctx context.Context, req gateway.ChargeRequest, operation string) (*resty.Response, error) {
	if c.cfg.MerchantID == "" || c.cfg.Secret == "" {
		return nil, errs.NewExternalError(serviceName, operation, ErrNotConfigured)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"merchant": c.cfg.MerchantID,
			"secret":   c.cfg.Secret,
			"ref_id":   req.RefID,
			"nominal":  strconv.FormatInt(req.Amount, 10),
			"metode":   req.Method,
		}).
		Get("/order")
	if err != nil {
		return nil, errs.NewExternalError(serviceName, operation, err)
	}
	return resp, nil
}

// CreateCharge opens a payment for a deposit
func (c *Client) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error) {
	resp, err := c.order(ctx, req, "createCharge")
	if err != nil {
		return nil, err
	}

	doc, err := httpclient.JSON(resp)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createCharge", err)
	}
	if !strings.EqualFold(doc.Get("status").String(), "Success") {
		msg := httpclient.FirstString(doc, "error_msg", "message", "data.message")
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		c.logger.Warn("TokoPay rejected charge", map[string]any{
			"refId": req.RefID,
			"error": msg,
		})
		return nil, errs.NewExternalError(serviceName, "createCharge", errors.New(msg))
	}

	data := doc.Get("data")
	return &gateway.Charge{
		RefID:        req.RefID,
		ExternalID:   data.Get("trx_id").String(),
		PayURL:       data.Get("pay_url").String(),
		QRLink:       data.Get("qr_link").String(),
		QRString:     data.Get("qr_string").String(),
		TotalPayable: data.Get("total_bayar").Int(),
	}, nil
}

// GetChargeStatus reads the payment status of a deposit
func (c *Client) GetChargeStatus(ctx context.Context, req gateway.ChargeRequest) (gateway.ChargeStatus, error) {
	resp, err := c.order(ctx, req, "getChargeStatus")
	if err != nil {
		return "", err
	}

	doc, err := httpclient.JSON(resp)
	if err != nil {
		return "", errs.NewExternalError(serviceName, "getChargeStatus", err)
	}

	status := doc.Get("data.status").String()
	if status == "" {
		msg := httpclient.FirstString(doc, "error_msg", "message")
		if msg == "" {
			msg = fmt.Sprintf("no status in response (status %d)", resp.StatusCode())
		}
		return "", errs.NewExternalError(serviceName, "getChargeStatus", errors.New(msg))
	}
	return ParseStatus(status), nil
}

// VerifyMerchant reports whether merchantID is the configured merchant
func (c *Client) VerifyMerchant(merchantID string) bool {
	if c.cfg.MerchantID == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(merchantID), []byte(c.cfg.MerchantID)) == 1
}

// ParseStatus maps TokoPay payment states to charge states. Unknown states stay pending.
func ParseStatus(raw string) gateway.ChargeStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "success", "completed":
		return gateway.ChargePaid
	case "failed", "expired", "gagal", "cancelled", "canceled":
		return gateway.ChargeFailed
	default:
		return gateway.ChargePending
	}
}

var _ gateway.PaymentGateway = (*Client)(nil)
