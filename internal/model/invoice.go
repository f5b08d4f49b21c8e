package model

import (
	"fmt"
	"time"
)

type Issuer struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
}

type InvoiceDocument struct {
	Issuer   Issuer
	Contract Contract
	Customer *Customer
	IssuedAt time.Time
	// TaxRate is a percentage.
	TaxRate float64
}

func (d InvoiceDocument) Number() string {
	return fmt.Sprintf("INV-#%s-%d", d.Contract.ID, d.Contract.RenewalDate.Year())
}

// PeriodEnd is one year after the renewal date that opens the billed period.
func (d InvoiceDocument) PeriodEnd() time.Time {
	return d.Contract.RenewalDate.AddDate(1, 0, 0)
}
