package entity

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// DefaultServerDays applies when a duration text cannot be parsed
const DefaultServerDays = 30

// ServerDetails is the provisioning metadata stored on a server order
type ServerDetails struct {
	RAM             int    `json:"ram"`
	CPU             int    `json:"cpu"`
	Disk            int    `json:"disk"`
	Location        string `json:"location"`
	Duration        string `json:"duration"`
	PanelAccountID  string `json:"panelUserId,omitempty"`
	PanelResourceID string `json:"panelServerId,omitempty"`
	PanelUsername   string `json:"panelUsername,omitempty"`
	PanelPassword   string `json:"panelPassword,omitempty"`
	PanelURL        string `json:"panelUrl,omitempty"`
}

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(hari|bulan|tahun)`)

// DurationDays converts "7 Hari", "3 Bulan" or "1 Tahun" into days.
// Months count as 30 days and years as 365.
func DurationDays(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultServerDays
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultServerDays
	}
	switch strings.ToLower(m[2]) {
	case "bulan":
		return n * 30
	case "tahun":
		return n * 365
	default:
		return n
	}
}

// ExpiryDate returns createdAt plus the order's rental duration
func (d *ServerDetails) ExpiryDate(createdAt time.Time) time.Time {
	days := DefaultServerDays
	if d != nil {
		days = DurationDays(d.Duration)
	}
	return createdAt.AddDate(0, 0, days)
}

// DaysRemaining returns ceil((expiry - now) / 24h). Zero or less means expired.
func DaysRemaining(expiry, now time.Time) int {
	return coreport.Duration(expiry.Sub(now)).Days()
}

// ServerTerm is a rental length offered for server plans
type ServerTerm string

const (
	TermOneMonth   ServerTerm = "1month"
	TermThreeMonth ServerTerm = "3month"
	TermSixMonth   ServerTerm = "6month"
	TermOneYear    ServerTerm = "1year"
)

type termPricing struct {
	months      int64
	discountPct int64
	label       string
}

var serverTerms = map[ServerTerm]termPricing{
	TermOneMonth:   {months: 1, discountPct: 0, label: "1 Bulan"},
	TermThreeMonth: {months: 3, discountPct: 5, label: "3 Bulan"},
	TermSixMonth:   {months: 6, discountPct: 10, label: "6 Bulan"},
	TermOneYear:    {months: 12, discountPct: 15, label: "1 Tahun"},
}

// ParseServerTerm validates a term, defaulting to one month when empty
func ParseServerTerm(s string) (ServerTerm, error) {
	if s == "" {
		return TermOneMonth, nil
	}
	term := ServerTerm(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := serverTerms[term]; !ok {
		return "", errs.ErrInvalidRequest
	}
	return term, nil
}

// Price returns the rental price for a monthly plan price, discount floored
func (t ServerTerm) Price(monthly int64) int64 {
	p := serverTerms[t]
	gross := monthly * p.months
	return gross - (gross*p.discountPct+99)/100
}

// Label is the human duration stored in ServerDetails.Duration
func (t ServerTerm) Label() string {
	return serverTerms[t].label
}
