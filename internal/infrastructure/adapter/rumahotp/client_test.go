package rumahotp

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

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "otp-key", r.Header.Get("x-apikey"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"message":"not found"}}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "otp-key", Timeout: time.Second}, logger.NewNoopLogger())
}

const countries = `{"success":true,"data":[
	{"number_id":101,"name":"Indonesia","pricelist":[{"provider_id":"7","price":2500},{"provider_id":"9","price":3100}]},
	{"number_id":102,"name":"Malaysia","pricelist":[{"provider_id":"7","price":5000}]}
]}`

func TestClient_Quote(t *testing.T) {
	client := newTestClient(t, map[string]string{"/v2/countries": countries})

	price, err := client.Quote(context.Background(), "wa", "101", "9")
	require.NoError(t, err)
	assert.Equal(t, int64(3100), price)

	price, err = client.Quote(context.Background(), "wa", "102", "7")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), price)

	_, err = client.Quote(context.Background(), "wa", "102", "9")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestClient_CreateOrder(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/v2/orders": `{"success":true,"data":{"order_id":"RO-1","phone_number":"+628111","service":"WhatsApp"}}`,
	})

	order, err := client.CreateOrder(context.Background(), "101", "7", "any")
	require.NoError(t, err)
	assert.Equal(t, "RO-1", order.ID)
	assert.Equal(t, "+628111", order.Phone)
	assert.Equal(t, "WhatsApp", order.Service)
}

func TestClient_CreateOrder_ProviderError(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/v2/orders": `{"success":false,"error":{"message":"Stok nomor habis"}}`,
	})

	_, err := client.CreateOrder(context.Background(), "101", "7", "")
	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.Contains(t, err.Error(), "Stok nomor habis")
}

func TestClient_GetStatus(t *testing.T) {
	tests := []struct {
		body  string
		state gateway.OTPState
		code  string
	}{
		{`{"success":true,"data":{"status":"waiting","otp_code":"-"}}`, gateway.OTPWaiting, ""},
		{`{"success":true,"data":{"status":"received","otp_code":"123456"}}`, gateway.OTPReceived, "123456"},
		{`{"success":true,"data":{"status":"canceled"}}`, gateway.OTPCanceled, ""},
		{`{"success":true,"data":{"status":"expiring"}}`, gateway.OTPCanceled, ""},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			client := newTestClient(t, map[string]string{"/v1/orders/get_status": tt.body})
			status, err := client.GetStatus(context.Background(), "RO-1")
			require.NoError(t, err)
			assert.Equal(t, tt.state, status.State)
			assert.Equal(t, tt.code, status.Code)
		})
	}
}

func TestClient_Cancel(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/v1/orders/set_status": `{"success":true,"data":{"status":"canceled"}}`,
	})
	assert.NoError(t, client.Cancel(context.Background(), "RO-1"))

	failing := newTestClient(t, map[string]string{
		"/v1/orders/set_status": `{"success":false,"message":"Order sudah menerima OTP"}`,
	})
	assert.ErrorIs(t, failing.Cancel(context.Background(), "RO-1"), errs.ErrExternalService)
}

func TestClient_RequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, logger.NewNoopLogger())
	_, err := client.GetStatus(context.Background(), "RO-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
