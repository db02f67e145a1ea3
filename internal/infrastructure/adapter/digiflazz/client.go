// Package digiflazz implements the digital goods provider port against the Digiflazz API
package digiflazz

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/httpclient"
)

const (
	serviceName = "digiflazz"

	rcRateLimited = "83"
	rcIPRejected  = "45"
)

var (
	// ErrNotConfigured is returned when the username or API key is missing
	ErrNotConfigured = errors.New("digiflazz credentials are not configured")
	// ErrRateLimited is returned when the price list endpoint throttles us
	ErrRateLimited = errors.New("digiflazz price list rate limited")
)

// Config holds Digiflazz credentials
type Config struct {
	BaseURL       string
	Username      string
	APIKey        string
	CallbackURL   string
	WebhookSecret string
	Timeout       time.Duration
}

// Client talks to the Digiflazz buyer API
type Client struct {
	http   *resty.Client
	cfg    Config
	logger core.Logger
}

// NewClient creates a Digiflazz client
func NewClient(cfg Config, logger core.Logger) *Client {
	return &Client{
		http:   httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// sign is md5(username + apiKey + suffix). Transactions sign the refId, lists a command word.
func (c *Client) sign(suffix string) string {
	sum := md5.Sum([]byte(c.cfg.Username + c.cfg.APIKey + suffix))
	return hex.EncodeToString(sum[:])
}

func (c *Client) configured() bool {
	return c.cfg.Username != "" && c.cfg.APIKey != ""
}

// PlaceOrder submits a top-up. A pending answer is final only once the callback arrives.
func (c *Client) PlaceOrder(ctx context.Context, refID, target, sku string) (*gateway.DigitalResult, error) {
	if !c.configured() {
		return nil, errs.NewExternalError(serviceName, "placeOrder", ErrNotConfigured)
	}

	payload := map[string]any{
		"username":       c.cfg.Username,
		"buyer_sku_code": strings.TrimSpace(sku),
		"customer_no":    strings.TrimSpace(target),
		"ref_id":         refID,
		"sign":           c.sign(refID),
	}
	if c.cfg.CallbackURL != "" {
		payload["cb_url"] = c.cfg.CallbackURL
	}
	// inquiry SKUs only check the customer number
	lower := strings.ToLower(sku)
	if strings.Contains(lower, "check") || strings.Contains(lower, "cek") {
		payload["inquiry"] = true
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/transaction")
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "placeOrder", err)
	}

	doc, err := httpclient.JSON(resp)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "placeOrder", err)
	}

	data := doc.Get("data")
	if rc := data.Get("rc").String(); rc == rcIPRejected {
		c.logger.Error("Digiflazz rejected the caller IP", map[string]any{"refId": refID, "rc": rc})
	}

	status := data.Get("status").String()
	if resp.IsError() || status == "" {
		msg := httpclient.FirstString(doc, "data.message", "message")
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return nil, errs.NewExternalError(serviceName, "placeOrder", errors.New(msg))
	}

	result := &gateway.DigitalResult{
		RefID:        httpclient.FirstString(data, "ref_id"),
		Status:       gateway.ParseDigitalStatus(status),
		Message:      data.Get("message").String(),
		SerialNumber: data.Get("sn").String(),
	}
	if result.RefID == "" {
		result.RefID = refID
	}

	c.logger.Info("Digiflazz order placed", map[string]any{
		"refId":  refID,
		"sku":    sku,
		"status": string(result.Status),
		"rc":     data.Get("rc").String(),
	})
	return result, nil
}

// PriceList fetches the prepaid price list. Price is left at zero for the caller's markup.
func (c *Client) PriceList(ctx context.Context) ([]entity.DigitalProduct, error) {
	if !c.configured() {
		return nil, errs.NewExternalError(serviceName, "priceList", ErrNotConfigured)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"cmd":      "prepaid",
			"username": c.cfg.Username,
			"sign":     c.sign("pricelist"),
		}).
		Post("/price-list")
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "priceList", err)
	}

	doc, err := httpclient.JSON(resp)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "priceList", err)
	}

	data := doc.Get("data")
	if !data.IsArray() {
		if data.Get("rc").String() == rcRateLimited || doc.Get("rc").String() == rcRateLimited {
			return nil, errs.NewExternalError(serviceName, "priceList", ErrRateLimited)
		}
		msg := httpclient.FirstString(doc, "data.message", "message")
		if msg == "" {
			msg = "unexpected price list format"
		}
		return nil, errs.NewExternalError(serviceName, "priceList", errors.New(msg))
	}

	var list []entity.DigitalProduct
	data.ForEach(func(_, item gjson.Result) bool {
		sku := item.Get("buyer_sku_code").String()
		if sku == "" {
			return true
		}
		list = append(list, entity.DigitalProduct{
			SKU:       sku,
			Name:      item.Get("product_name").String(),
			Brand:     item.Get("brand").String(),
			Category:  item.Get("category").String(),
			BasePrice: item.Get("price").Int(),
			Available: item.Get("buyer_product_status").Bool() && item.Get("seller_product_status").Bool(),
		})
		return true
	})
	return list, nil
}

var _ gateway.DigitalGoodsProvider = (*Client)(nil)
