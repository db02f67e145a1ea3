package entity

import "time"

// Severity of a user-facing notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is a message shown in the user's inbox
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Severity  Severity
	IsRead    bool
	CreatedAt time.Time
}

// LedgerAudit compares a balance against the sum of its completed transactions
type LedgerAudit struct {
	UserID     string `json:"userId"`
	Balance    int64  `json:"balance"`
	LedgerSum  int64  `json:"ledgerSum"`
	Consistent bool   `json:"consistent"`
}
