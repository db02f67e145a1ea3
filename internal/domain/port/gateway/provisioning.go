package gateway

import "context"

// AccountSpec describes a panel account to create
type AccountSpec struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Account is a created panel account
type Account struct {
	ID       string
	Username string
	Password string
}

// ResourceSpec describes a server to create. RAM and disk are in GB, CPU in percent.
type ResourceSpec struct {
	Name     string
	RAM      int
	Disk     int
	CPU      int
	Location string
}

// Resource is a created server
type Resource struct {
	ID         string
	Identifier string
}

// ProvisioningPanel creates and removes hosted servers.
// Every call may fail; callers log and compensate.
type ProvisioningPanel interface {
	CreateAccount(ctx context.Context, spec AccountSpec) (*Account, error)
	CreateResource(ctx context.Context, account *Account, spec ResourceSpec) (*Resource, error)
	DeleteResource(ctx context.Context, resourceID string) error
	DeleteAccount(ctx context.Context, accountID string) error
	// PanelURL is the login URL handed to customers
	PanelURL() string
}
