package model

import (
	"encoding/json"
	"fmt"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "Active"
	CustomerStatusInactive CustomerStatus = "Inactive"
	CustomerStatusBlocked  CustomerStatus = "Blocked"
)

// CustomerStatuses lists every customer status in display order.
var CustomerStatuses = []CustomerStatus{
	CustomerStatusActive,
	CustomerStatusInactive,
	CustomerStatusBlocked,
}

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked:
		return true
	default:
		return false
	}
}

func (s *CustomerStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := CustomerStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("unknown customer status %q", raw)
	}
	*s = status
	return nil
}

type Customer struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email,omitempty"`
	Phone  string         `json:"number,omitempty"`
	Status CustomerStatus `json:"status"`
}

// NewCustomer carries the caller-supplied fields of a customer; the
// identifier and status are assigned on creation.
type NewCustomer struct {
	Name  string
	Email string
	Phone string
}
