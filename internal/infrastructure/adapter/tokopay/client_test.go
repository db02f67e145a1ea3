package tokopay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		MerchantID: "M123",
		Secret:     "s3cret",
		Timeout:    time.Second,
	}, logger.NewNoopLogger())
}

func TestClient_CreateCharge(t *testing.T) {
	req := gateway.ChargeRequest{RefID: "DEP17000000001234", Amount: 50000, Method: "QRIS"}

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/order", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "M123", q.Get("merchant"))
			assert.Equal(t, "s3cret", q.Get("secret"))
			assert.Equal(t, "DEP17000000001234", q.Get("ref_id"))
			assert.Equal(t, "50000", q.Get("nominal"))
			assert.Equal(t, "QRIS", q.Get("metode"))
			_, _ = w.Write([]byte(`{"status":"Success","data":{"trx_id":"TP1","pay_url":"https://pay/1","qr_link":"https://qr/1","qr_string":"000201","total_bayar":50350}}`))
		})

		charge, err := client.CreateCharge(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "TP1", charge.ExternalID)
		assert.Equal(t, "https://pay/1", charge.PayURL)
		assert.Equal(t, "https://qr/1", charge.QRLink)
		assert.Equal(t, int64(50350), charge.TotalPayable)
		assert.Equal(t, req.RefID, charge.RefID)
	})

	t.Run("gateway rejection", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"Failed","error_msg":"nominal terlalu kecil"}`))
		})

		_, err := client.CreateCharge(context.Background(), req)
		require.ErrorIs(t, err, errs.ErrExternalService)
		assert.Contains(t, err.Error(), "nominal terlalu kecil")
	})

	t.Run("non JSON body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		})

		_, err := client.CreateCharge(context.Background(), req)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})

	t.Run("timeout", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := client.CreateCharge(ctx, req)
		assert.ErrorIs(t, err, errs.ErrExternalTimeout)
	})

	t.Run("missing credentials", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, logger.NewNoopLogger())
		_, err := client.CreateCharge(context.Background(), req)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestClient_GetChargeStatus(t *testing.T) {
	tests := []struct {
		body string
		want gateway.ChargeStatus
	}{
		{`{"status":"Success","data":{"status":"Paid"}}`, gateway.ChargePaid},
		{`{"status":"Success","data":{"status":"Success"}}`, gateway.ChargePaid},
		{`{"status":"Success","data":{"status":"Unpaid"}}`, gateway.ChargePending},
		{`{"status":"Success","data":{"status":"Expired"}}`, gateway.ChargeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			status, err := client.GetChargeStatus(context.Background(), gateway.ChargeRequest{RefID: "DEP1", Amount: 1000, Method: "QRIS"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}

	t.Run("missing status is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"Failed","message":"ref_id tidak ditemukan"}`))
		})
		_, err := client.GetChargeStatus(context.Background(), gateway.ChargeRequest{RefID: "DEP1"})
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}

func TestClient_VerifyMerchant(t *testing.T) {
	client := NewClient(Config{MerchantID: "M123"}, logger.NewNoopLogger())
	assert.True(t, client.VerifyMerchant("M123"))
	assert.False(t, client.VerifyMerchant("M124"))
	assert.False(t, client.VerifyMerchant(""))

	unconfigured := NewClient(Config{}, logger.NewNoopLogger())
	assert.False(t, unconfigured.VerifyMerchant(""))
}
