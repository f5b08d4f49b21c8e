// Package dashboard aggregates contract and customer collections into the
// statistics and lists shown on the dashboard.
package dashboard

import (
	"time"

	"github.com/nurpe/amc-manager/internal/format"
	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/status"
)

// CustomerLookup resolves a customer id; ok is false for unknown ids.
type CustomerLookup func(id string) (model.Customer, bool)

// ComputeStats counts both collections and collects the contracts due for
// renewal within the window and those needing payment follow-up. Input order
// is preserved and the inputs are not modified.
func ComputeStats(contracts []model.Contract, customers []model.Customer, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{
		TotalContracts:   len(contracts),
		TotalCustomers:   len(customers),
		UpcomingRenewals: []model.Contract{},
		OverduePayments:  []model.Contract{},
	}
	for _, c := range contracts {
		if status.IsUpcomingRenewal(c, now) {
			stats.UpcomingRenewals = append(stats.UpcomingRenewals, c)
		}
		if status.IsOverdueForAction(c, now) {
			stats.OverduePayments = append(stats.OverduePayments, c)
		}
	}
	return stats
}

// LookupFrom indexes customers by id.
func LookupFrom(customers []model.Customer) CustomerLookup {
	index := make(map[string]model.Customer, len(customers))
	for _, c := range customers {
		index[c.ID] = c
	}
	return func(id string) (model.Customer, bool) {
		c, ok := index[id]
		return c, ok
	}
}

// CustomerName returns the customer's name or UnknownCustomerName.
func CustomerName(lookup CustomerLookup, id string) string {
	if c, ok := lookup(id); ok && c.Name != "" {
		return c.Name
	}
	return model.UnknownCustomerName
}

func BuildContractRows(contracts []model.Contract, lookup CustomerLookup, now time.Time) []model.ContractRow {
	rows := make([]model.ContractRow, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, model.ContractRow{
			Contract:        c,
			CustomerName:    CustomerName(lookup, c.CustomerID),
			EffectiveStatus: status.EffectiveStatus(c, now),
		})
	}
	return rows
}

func BuildReminders(kind model.ReminderKind, contracts []model.Contract, lookup CustomerLookup) []model.Reminder {
	reminders := make([]model.Reminder, 0, len(contracts))
	for _, c := range contracts {
		reminders = append(reminders, model.Reminder{
			Kind:         kind,
			ContractID:   c.ID,
			CustomerName: CustomerName(lookup, c.CustomerID),
			DueDate:      c.RenewalDate,
			AMCAmount:    format.Money(c.AMCAmount),
		})
	}
	return reminders
}

// BuildReport assembles everything the dashboard and its export need.
func BuildReport(contracts []model.Contract, customers []model.Customer, now time.Time) model.DashboardReport {
	lookup := LookupFrom(customers)
	stats := ComputeStats(contracts, customers, now)
	return model.DashboardReport{
		GeneratedAt: now,
		Stats:       stats,
		Rows:        BuildContractRows(contracts, lookup, now),
		Upcoming:    BuildReminders(model.ReminderUpcoming, stats.UpcomingRenewals, lookup),
		Overdue:     BuildReminders(model.ReminderOverdue, stats.OverduePayments, lookup),
	}
}
