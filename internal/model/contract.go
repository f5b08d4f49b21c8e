package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are persisted and served as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusOverdue PaymentStatus = "Overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusOverdue:
		return true
	default:
		return false
	}
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := PaymentStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("unknown payment status %q", raw)
	}
	*s = status
	return nil
}

// DurationMonths is the contract term. Only the values in AllowedDurations
// are accepted for new contracts.
type DurationMonths int

var AllowedDurations = []DurationMonths{12, 13}

func (d DurationMonths) Valid() bool {
	for _, allowed := range AllowedDurations {
		if d == allowed {
			return true
		}
	}
	return false
}

type Contract struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customerId"`
	DealClosedDate   time.Time       `json:"dealClosedDate"`
	DealAmount       decimal.Decimal `json:"dealAmount"`
	AMCAmount        decimal.Decimal `json:"amcAmount"`
	DurationInMonths DurationMonths  `json:"durationInMonths"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	RenewalDate      time.Time       `json:"renewalDate"`
}

// NewContract carries the caller-supplied fields of a contract. The
// identifier, payment status and renewal date are assigned on creation.
type NewContract struct {
	CustomerID       string
	DealClosedDate   time.Time
	DealAmount       decimal.Decimal
	AMCAmount        decimal.Decimal
	DurationInMonths DurationMonths
}

// RenewalDateFor shifts the deal-closed date forward by the contract term.
func RenewalDateFor(dealClosed time.Time, months DurationMonths) time.Time {
	return dealClosed.AddDate(0, int(months), 0)
}
