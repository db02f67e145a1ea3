// Package pterodactyl implements the provisioning panel port against the
// Pterodactyl application API
package pterodactyl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/httpclient"
)

const (
	serviceName = "panel"

	// plan sizes are GB, the panel counts MB
	mbPerGB = 1000

	defaultDockerImage = "ghcr.io/parkervcp/yolks:nodejs_18"
	defaultStartup     = "npm start"
)

// ErrNotConfigured is returned when the panel URL or key is missing
var ErrNotConfigured = errors.New("pterodactyl panel is not configured")

// Config holds panel access and the egg new servers are created from
type Config struct {
	BaseURL     string
	APIKey      string
	NestID      int
	EggID       int
	LocationID  int
	DockerImage string
	Timeout     time.Duration
}

// Client talks to the Pterodactyl application API
type Client struct {
	http   *resty.Client
	cfg    Config
	logger core.Logger
	now    func() time.Time
}

// NewClient creates a panel client
func NewClient(cfg Config, logger core.Logger, timeProvider core.TimeProvider) *Client {
	if cfg.DockerImage == "" {
		cfg.DockerImage = defaultDockerImage
	}
	client := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, logger).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: client, cfg: cfg, logger: logger, now: timeProvider.Now}
}

// PanelURL is where customers log in
func (c *Client) PanelURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

func (c *Client) configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

// attributes returns the "attributes" node of a successful answer or the panel's first error
func attributes(resp *resty.Response) (gjson.Result, error) {
	doc, err := httpclient.JSON(resp)
	if err != nil {
		return gjson.Result{}, err
	}
	if errList := doc.Get("errors"); errList.Exists() || resp.IsError() {
		msg := httpclient.FirstString(doc, "errors.0.detail", "errors.0.code")
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return gjson.Result{}, errors.New(msg)
	}
	return doc.Get("attributes"), nil
}

// CreateAccount registers a panel user
func (c *Client) CreateAccount(ctx context.Context, spec gateway.AccountSpec) (*gateway.Account, error) {
	if !c.configured() {
		return nil, errs.NewExternalError(serviceName, "createAccount", ErrNotConfigured)
	}

	username := strings.ToLower(spec.Username)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"email":      strings.ToLower(spec.Email),
			"username":   username,
			"first_name": spec.FirstName,
			"last_name":  spec.LastName,
			"root_admin": false,
			"language":   "en",
			"password":   spec.Password,
		}).
		Post("/api/application/users")
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createAccount", err)
	}

	attrs, err := attributes(resp)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createAccount", err)
	}

	account := &gateway.Account{
		ID:       attrs.Get("id").String(),
		Username: httpclient.FirstString(attrs, "username"),
		Password: spec.Password,
	}
	if account.Username == "" {
		account.Username = username
	}
	c.logger.Info("Panel account created", map[string]any{
		"accountId": account.ID,
		"username":  account.Username,
	})
	return account, nil
}

// startup reads the egg's startup command
func (c *Client) startup(ctx context.Context) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/application/nests/%d/eggs/%d", c.cfg.NestID, c.cfg.EggID))
	if err != nil {
		return "", err
	}
	attrs, err := attributes(resp)
	if err != nil {
		return "", fmt.Errorf("load egg: %w", err)
	}
	if s := attrs.Get("startup").String(); s != "" {
		return s, nil
	}
	return defaultStartup, nil
}

// CreateResource creates a server owned by account
func (c *Client) CreateResource(ctx context.Context, account *gateway.Account, spec gateway.ResourceSpec) (*gateway.Resource, error) {
	if !c.configured() {
		return nil, errs.NewExternalError(serviceName, "createResource", ErrNotConfigured)
	}
	ownerID, err := strconv.Atoi(account.ID)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createResource", fmt.Errorf("invalid account id %q", account.ID))
	}

	startup, err := c.startup(ctx)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createResource", err)
	}

	locationID := c.cfg.LocationID
	if id, err := strconv.Atoi(spec.Location); err == nil && id > 0 {
		locationID = id
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"name":         spec.Name,
			"description":  c.now().Format(time.RFC3339),
			"user":         ownerID,
			"egg":          c.cfg.EggID,
			"docker_image": c.cfg.DockerImage,
			"startup":      startup,
			"environment": map[string]string{
				"INST":        "npm",
				"USER_UPLOAD": "0",
				"AUTO_UPDATE": "0",
				"CMD_RUN":     defaultStartup,
			},
			"limits": map[string]int{
				"memory": spec.RAM * mbPerGB,
				"swap":   0,
				"disk":   spec.Disk * mbPerGB,
				"io":     500,
				"cpu":    spec.CPU,
			},
			"feature_limits": map[string]int{
				"databases":   5,
				"backups":     5,
				"allocations": 5,
			},
			"deploy": map[string]any{
				"locations":    []int{locationID},
				"dedicated_ip": false,
				"port_range":   []string{},
			},
		}).
		Post("/api/application/servers")
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createResource", err)
	}

	attrs, err := attributes(resp)
	if err != nil {
		return nil, errs.NewExternalError(serviceName, "createResource", err)
	}

	resource := &gateway.Resource{
		ID:         attrs.Get("id").String(),
		Identifier: attrs.Get("identifier").String(),
	}
	c.logger.Info("Panel server created", map[string]any{
		"resourceId": resource.ID,
		"accountId":  account.ID,
		"ram":        spec.RAM,
		"disk":       spec.Disk,
		"cpu":        spec.CPU,
	})
	return resource, nil
}

// DeleteResource removes a server. A server that is already gone counts as deleted.
func (c *Client) DeleteResource(ctx context.Context, resourceID string) error {
	return c.delete(ctx, "deleteResource", "/api/application/servers/"+resourceID)
}

// DeleteAccount removes a panel user. A user that is already gone counts as deleted.
func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	return c.delete(ctx, "deleteAccount", "/api/application/users/"+accountID)
}

func (c *Client) delete(ctx context.Context, operation, path string) error {
	if !c.configured() {
		return errs.NewExternalError(serviceName, operation, ErrNotConfigured)
	}

	resp, err := c.http.R().SetContext(ctx).Delete(path)
	if err != nil {
		return errs.NewExternalError(serviceName, operation, err)
	}
	if resp.IsSuccess() || resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	return errs.NewExternalError(serviceName, operation, fmt.Errorf("status %d", resp.StatusCode()))
}

var _ gateway.ProvisioningPanel = (*Client)(nil)
