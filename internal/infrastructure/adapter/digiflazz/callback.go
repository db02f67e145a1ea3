package digiflazz

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/tidwall/gjson"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// SignatureHeader carries "sha1=<hex hmac of the body>" on callbacks
const SignatureHeader = "X-Hub-Signature"

// VerifyCallback checks the callback HMAC. With no secret configured every callback is accepted.
func (c *Client) VerifyCallback(body []byte, signature string) bool {
	if c.cfg.WebhookSecret == "" {
		return true
	}
	mac := hmac.New(sha1.New, []byte(c.cfg.WebhookSecret))
	mac.Write(body)
	expected := "sha1=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// ParseCallback reads a callback body of the form {"data": {"ref_id", "status", ...}}
func ParseCallback(body []byte) (usecase.DigitalCallback, error) {
	if !gjson.ValidBytes(body) {
		return usecase.DigitalCallback{}, errs.ErrInvalidRequest
	}
	data := gjson.GetBytes(body, "data")
	cb := usecase.DigitalCallback{
		RefID:        strings.TrimSpace(data.Get("ref_id").String()),
		Status:       data.Get("status").String(),
		Message:      data.Get("message").String(),
		SerialNumber: data.Get("sn").String(),
	}
	if cb.RefID == "" {
		return usecase.DigitalCallback{}, errs.ErrInvalidRequest
	}
	return cb, nil
}
