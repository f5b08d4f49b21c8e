package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedCustomers is the sample customer set used when nothing valid is stored.
func SeedCustomers() []Customer {
	return []Customer{
		{ID: "CUST1", Name: "Innovate Corp", Phone: "555-0101", Status: CustomerStatusActive},
		{ID: "CUST2", Name: "Solutions Inc.", Phone: "555-0102", Status: CustomerStatusActive},
		{ID: "CUST3", Name: "Tech Giants LLC", Phone: "555-0103", Status: CustomerStatusInactive},
		{ID: "CUST4", Name: "Synergy Partners", Phone: "555-0104", Status: CustomerStatusBlocked},
	}
}

// SeedContracts is the sample contract set used when nothing valid is stored.
// Dates are anchored on now so the sample covers overdue, paid and
// recently signed contracts.
func SeedContracts(now time.Time) []Contract {
	lastYear := now.AddDate(-1, 0, 0)
	lastYearPlus30 := lastYear.AddDate(0, 0, 30)
	lastYearMinus15 := lastYear.AddDate(0, 0, -15)
	fixed := time.Date(2023, time.August, 15, 0, 0, 0, 0, time.UTC)

	seed := func(id, customerID string, closed time.Time, deal, amc int64, months DurationMonths, status PaymentStatus) Contract {
		return Contract{
			ID:               id,
			CustomerID:       customerID,
			DealClosedDate:   closed,
			DealAmount:       decimal.NewFromInt(deal),
			AMCAmount:        decimal.NewFromInt(amc),
			DurationInMonths: months,
			PaymentStatus:    status,
			RenewalDate:      RenewalDateFor(closed, months),
		}
	}

	return []Contract{
		seed("C1", "CUST1", lastYear, 50000, 5000, 12, PaymentStatusPending),
		seed("C2", "CUST2", fixed, 75000, 7500, 12, PaymentStatusPaid),
		seed("C3", "CUST3", lastYearPlus30, 30000, 3500, 13, PaymentStatusPaid),
		seed("C4", "CUST1", lastYearMinus15, 120000, 12000, 12, PaymentStatusOverdue),
	}
}
