package gateway

import "context"

// ChargeStatus is the payment gateway's view of a charge
type ChargeStatus string

const (
	ChargePending ChargeStatus = "pending"
	ChargePaid    ChargeStatus = "paid"
	ChargeFailed  ChargeStatus = "failed"
)

// ChargeRequest identifies a deposit charge at the gateway
type ChargeRequest struct {
	RefID  string
	Amount int64
	Method string
}

// Charge is what the gateway returns when a charge is opened
type Charge struct {
	RefID        string `json:"refId"`
	ExternalID   string `json:"externalId"`
	PayURL       string `json:"payUrl"`
	QRLink       string `json:"qrLink,omitempty"`
	QRString     string `json:"qrString,omitempty"`
	TotalPayable int64  `json:"totalPayable"`
}

// PaymentGateway opens deposit charges and reports their status
type PaymentGateway interface {
	// CreateCharge opens a charge for refId. Nothing is written to the ledger on failure.
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)

	// GetChargeStatus asks the gateway whether the charge was paid
	GetChargeStatus(ctx context.Context, req ChargeRequest) (ChargeStatus, error)

	// VerifyMerchant reports whether a webhook was addressed to this merchant
	VerifyMerchant(merchantID string) bool
}
