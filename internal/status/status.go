// Package status derives display-time payment status and renewal-window
// membership of contracts. Every function takes the current time explicitly
// and never modifies the contract it is given.
package status

import (
	"time"

	"github.com/nurpe/amc-manager/internal/model"
)

const (
	// GracePeriodDays is how long a lapsed renewal shows as Pending before
	// it is reported Overdue.
	GracePeriodDays = 15
	// RenewalWindowDays is the look-ahead used for upcoming renewals.
	RenewalWindowDays = 30
)

// EffectiveStatus returns the payment status to display for c at now.
func EffectiveStatus(c model.Contract, now time.Time) model.PaymentStatus {
	if c.PaymentStatus == model.PaymentStatusPaid && c.RenewalDate.After(now) {
		return model.PaymentStatusPaid
	}
	if !c.RenewalDate.After(now) {
		graceEnd := now.AddDate(0, 0, -GracePeriodDays)
		if !c.RenewalDate.After(graceEnd) {
			return model.PaymentStatusOverdue
		}
		return model.PaymentStatusPending
	}
	return c.PaymentStatus
}

// IsUpcomingRenewal reports whether the renewal date falls in
// (now, now+RenewalWindowDays].
func IsUpcomingRenewal(c model.Contract, now time.Time) bool {
	windowEnd := now.AddDate(0, 0, RenewalWindowDays)
	return c.RenewalDate.After(now) && !c.RenewalDate.After(windowEnd)
}

// IsOverdueForAction reports whether the renewal date has passed while the
// stored status is not Paid. No grace period applies here.
func IsOverdueForAction(c model.Contract, now time.Time) bool {
	return !c.RenewalDate.After(now) && c.PaymentStatus != model.PaymentStatusPaid
}
