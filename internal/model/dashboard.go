package model

import "time"

// UnknownCustomerName is shown in place of a customer that cannot be resolved.
const UnknownCustomerName = "Unknown Customer"

type DashboardStats struct {
	TotalContracts   int        `json:"totalContracts"`
	TotalCustomers   int        `json:"totalCustomers"`
	UpcomingRenewals []Contract `json:"upcomingRenewals"`
	OverduePayments  []Contract `json:"overduePayments"`
}

// ContractRow is a contract as it is listed: the stored record plus the
// status derived for the moment of display.
type ContractRow struct {
	Contract        Contract      `json:"contract"`
	CustomerName    string        `json:"customerName"`
	EffectiveStatus PaymentStatus `json:"effectiveStatus"`
}

type ReminderKind string

const (
	ReminderUpcoming ReminderKind = "upcoming"
	ReminderOverdue  ReminderKind = "overdue"
)

type Reminder struct {
	Kind         ReminderKind `json:"kind"`
	ContractID   string       `json:"contractId"`
	CustomerName string       `json:"customerName"`
	DueDate      time.Time    `json:"dueDate"`
	AMCAmount    string       `json:"amcAmount"`
}

type DashboardReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Stats       DashboardStats `json:"stats"`
	Rows        []ContractRow  `json:"rows"`
	Upcoming    []Reminder     `json:"upcoming"`
	Overdue     []Reminder     `json:"overdue"`
}
