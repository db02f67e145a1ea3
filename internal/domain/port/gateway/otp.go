package gateway

import "context"

// OTPOrder is a rented phone number waiting for a code
type OTPOrder struct {
	ID      string
	Phone   string
	Service string
}

// OTPState is the normalized provider state of an OTP order
type OTPState string

const (
	OTPWaiting  OTPState = "waiting"
	OTPReceived OTPState = "received"
	OTPCanceled OTPState = "canceled"
)

// OTPStatus is a polled OTP order state
type OTPStatus struct {
	State OTPState
	Code  string
}

// OTPProvider rents numbers for one-time-password reception
type OTPProvider interface {
	// Quote returns the provider price for a number on a service
	Quote(ctx context.Context, serviceID, numberID, providerID string) (int64, error)
	CreateOrder(ctx context.Context, numberID, providerID, operatorID string) (*OTPOrder, error)
	GetStatus(ctx context.Context, orderID string) (*OTPStatus, error)
	Cancel(ctx context.Context, orderID string) error
}
