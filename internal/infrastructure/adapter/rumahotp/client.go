// Package rumahotp implements the OTP provider port against the RumahOTP API
package rumahotp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/httpclient"
)

const serviceName = "otp"

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("otp api key is not configured")
	// ErrPriceNotFound is returned when the number/provider pair is not on the price list
	ErrPriceNotFound = errors.New("otp price not found")
)

// Config holds RumahOTP credentials
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the RumahOTP API
type Client struct {
	http   *resty.Client
	cfg    Config
	logger core.Logger
}

// NewClient creates a RumahOTP client
func NewClient(cfg Config, logger core.Logger) *Client {
	client := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, logger).
		SetHeader("x-apikey", cfg.APIKey)
	return &Client{http: client, cfg: cfg, logger: logger}
}

// get performs a GET and returns the "data" node of a successful answer
func (c *Client) get(ctx context.Context, operation, path string, params map[string]string) (gjson.Result, error) {
	if c.cfg.APIKey == "" {
		return gjson.Result{}, errs.NewExternalError(serviceName, operation, ErrNotConfigured)
	}

	resp, err := c.http.R().SetContext(ctx).SetQueryParams(params).Get(path)
	if err != nil {
		return gjson.Result{}, errs.NewExternalError(serviceName, operation, err)
	}

	doc, err := httpclient.JSON(resp)
	if err != nil {
		return gjson.Result{}, errs.NewExternalError(serviceName, operation, err)
	}

	// some endpoints answer with "status" instead of "success"
	ok := doc.Get("success").Bool() || doc.Get("status").Bool()
	data := doc.Get("data")
	if resp.IsError() || !ok || !data.Exists() {
		msg := httpclient.FirstString(doc, "error.message", "message")
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return gjson.Result{}, errs.NewExternalError(serviceName, operation, errors.New(msg))
	}
	return data, nil
}

// Quote looks up the provider price of a number on a service's price list
func (c *Client) Quote(ctx context.Context, serviceID, numberID, providerID string) (int64, error) {
	data, err := c.get(ctx, "quote", "/v2/countries", map[string]string{"service_id": serviceID})
	if err != nil {
		return 0, err
	}

	var (
		price int64
		found bool
	)
	data.ForEach(func(_, country gjson.Result) bool {
		if country.Get("number_id").String() != numberID {
			return true
		}
		country.Get("pricelist").ForEach(func(_, p gjson.Result) bool {
			if p.Get("provider_id").String() == providerID {
				price, found = p.Get("price").Int(), true
				return false
			}
			return true
		})
		return !found
	})
	if !found || price <= 0 {
		return 0, errs.NewExternalError(serviceName, "quote", ErrPriceNotFound)
	}
	return price, nil
}

// CreateOrder rents a number
func (c *Client) CreateOrder(ctx context.Context, numberID, providerID, operatorID string) (*gateway.OTPOrder, error) {
	params := map[string]string{
		"number_id":   numberID,
		"provider_id": providerID,
	}
	if operatorID != "" {
		params["operator_id"] = operatorID
	}

	data, err := c.get(ctx, "createOrder", "/v2/orders", params)
	if err != nil {
		return nil, err
	}

	order := &gateway.OTPOrder{
		ID:      data.Get("order_id").String(),
		Phone:   data.Get("phone_number").String(),
		Service: data.Get("service").String(),
	}
	if order.ID == "" {
		return nil, errs.NewExternalError(serviceName, "createOrder", errors.New("response has no order_id"))
	}

	c.logger.Info("OTP number created", map[string]any{
		"refId":   order.ID,
		"service": order.Service,
	})
	return order, nil
}

// GetStatus polls an order
func (c *Client) GetStatus(ctx context.Context, orderID string) (*gateway.OTPStatus, error) {
	data, err := c.get(ctx, "getStatus", "/v1/orders/get_status", map[string]string{"order_id": orderID})
	if err != nil {
		return nil, err
	}

	code := httpclient.FirstString(data, "otp_code", "otp")
	if code == "-" {
		code = ""
	}
	return &gateway.OTPStatus{
		State: parseState(data.Get("status").String(), code),
		Code:  code,
	}, nil
}

// Cancel releases a number that has not received a code
func (c *Client) Cancel(ctx context.Context, orderID string) error {
	_, err := c.get(ctx, "cancel", "/v1/orders/set_status", map[string]string{
		"order_id": orderID,
		"status":   "cancel",
	})
	return err
}

func parseState(status, code string) gateway.OTPState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "canceled", "cancelled", "cancel", "expired", "expiring":
		return gateway.OTPCanceled
	case "received", "completed", "done", "success":
		if code != "" {
			return gateway.OTPReceived
		}
	}
	if code != "" {
		return gateway.OTPReceived
	}
	return gateway.OTPWaiting
}

var _ gateway.OTPProvider = (*Client)(nil)
