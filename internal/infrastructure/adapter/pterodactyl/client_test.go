package pterodactyl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
)

type panelStub struct {
	t           *testing.T
	lastServer  gjson.Result
	deleted     []string
	failServers bool
}

func (p *panelStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(p.t, "Bearer ptla_key", r.Header.Get("Authorization"))
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/application/users":
		doc := gjson.ParseBytes(body)
		if doc.Get("username").String() == "taken" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"errors":[{"code":"ValidationException","detail":"The username has already been taken."}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"user","attributes":{"id":42,"username":"` + doc.Get("username").String() + `"}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/application/nests/5/eggs/15":
		_, _ = w.Write([]byte(`{"attributes":{"startup":"node index.js"}}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/application/servers":
		if p.failServers {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"detail":"No allocations available"}]}`))
			return
		}
		p.lastServer = gjson.ParseBytes(body)
		_, _ = w.Write([]byte(`{"attributes":{"id":77,"identifier":"abcd1234"}}`))
	case r.Method == http.MethodDelete:
		p.deleted = append(p.deleted, r.URL.Path)
		if r.URL.Path == "/api/application/servers/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Path == "/api/application/users/500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T) (*Client, *panelStub) {
	t.Helper()
	stub := &panelStub{t: t}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL + "/",
		APIKey:     "ptla_key",
		NestID:     5,
		EggID:      15,
		LocationID: 1,
		Timeout:    time.Second,
	}, logger.NewNoopLogger(), timeadapter.NewRealTimeProvider()), stub
}

func TestClient_CreateAccount(t *testing.T) {
	client, _ := newTestClient(t)

	account, err := client.CreateAccount(context.Background(), gateway.AccountSpec{
		Username: "Alice01", Email: "alice01@panel.example", FirstName: "Alice", LastName: "Server", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", account.ID)
	assert.Equal(t, "alice01", account.Username)
	assert.Equal(t, "pw", account.Password)

	_, err = client.CreateAccount(context.Background(), gateway.AccountSpec{Username: "taken"})
	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.Contains(t, err.Error(), "already been taken")
}

func TestClient_CreateResource(t *testing.T) {
	client, stub := newTestClient(t)

	res, err := client.CreateResource(context.Background(), &gateway.Account{ID: "42", Username: "alice01"},
		gateway.ResourceSpec{Name: "Basic-alice01", RAM: 2, Disk: 10, CPU: 100, Location: "SG"})
	require.NoError(t, err)
	assert.Equal(t, "77", res.ID)
	assert.Equal(t, "abcd1234", res.Identifier)

	assert.Equal(t, int64(2000), stub.lastServer.Get("limits.memory").Int())
	assert.Equal(t, int64(10000), stub.lastServer.Get("limits.disk").Int())
	assert.Equal(t, int64(100), stub.lastServer.Get("limits.cpu").Int())
	assert.Equal(t, int64(42), stub.lastServer.Get("user").Int())
	assert.Equal(t, "node index.js", stub.lastServer.Get("startup").String())
	assert.Equal(t, int64(1), stub.lastServer.Get("deploy.locations.0").Int())
}

func TestClient_CreateResource_Failure(t *testing.T) {
	client, stub := newTestClient(t)
	stub.failServers = true

	_, err := client.CreateResource(context.Background(), &gateway.Account{ID: "42"}, gateway.ResourceSpec{Name: "x", RAM: 1, Disk: 1, CPU: 50})
	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.Contains(t, err.Error(), "No allocations available")

	_, err = client.CreateResource(context.Background(), &gateway.Account{ID: "not-a-number"}, gateway.ResourceSpec{})
	assert.ErrorIs(t, err, errs.ErrExternalService)
}

func TestClient_Delete(t *testing.T) {
	client, stub := newTestClient(t)

	assert.NoError(t, client.DeleteResource(context.Background(), "77"))
	assert.NoError(t, client.DeleteResource(context.Background(), "404"))
	assert.ErrorIs(t, client.DeleteAccount(context.Background(), "500"), errs.ErrExternalService)
	assert.Equal(t, []string{
		"/api/application/servers/77",
		"/api/application/servers/404",
		"/api/application/users/500",
	}, stub.deleted)
}

func TestClient_PanelURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://panel.example/"}, logger.NewNoopLogger(), timeadapter.NewRealTimeProvider())
	assert.Equal(t, "https://panel.example", client.PanelURL())

	_, err := client.CreateAccount(context.Background(), gateway.AccountSpec{Username: "a"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
