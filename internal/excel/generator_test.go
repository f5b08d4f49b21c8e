package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/amc-manager/internal/model"
)

func TestGenerateDashboard(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	contract := model.Contract{
		ID:               "C1",
		CustomerID:       "CUST1",
		DealClosedDate:   now.AddDate(-1, 0, -20),
		DealAmount:       decimal.NewFromInt(50000),
		AMCAmount:        decimal.NewFromInt(5000),
		DurationInMonths: 12,
		PaymentStatus:    model.PaymentStatusPending,
		RenewalDate:      now.AddDate(0, 0, -20),
	}
	report := model.DashboardReport{
		GeneratedAt: now,
		Stats: model.DashboardStats{
			TotalContracts:   1,
			TotalCustomers:   1,
			UpcomingRenewals: []model.Contract{},
			OverduePayments:  []model.Contract{contract},
		},
		Rows: []model.ContractRow{{Contract: contract, CustomerName: "Innovate Corp", EffectiveStatus: model.PaymentStatusOverdue}},
		Overdue: []model.Reminder{{
			Kind:         model.ReminderOverdue,
			ContractID:   "C1",
			CustomerName: "Innovate Corp",
			DueDate:      contract.RenewalDate,
			AMCAmount:    "$5,000",
		}},
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{SheetSummary, SheetContracts, SheetUpcoming, SheetOverdue}, file.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := file.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "2025-06-01 09:30:00", cell(SheetSummary, "B1"))
	assert.Equal(t, "1", cell(SheetSummary, "B2"))
	assert.Equal(t, "1", cell(SheetSummary, "B5"))
	assert.Equal(t, "Innovate Corp", cell(SheetContracts, "B2"))
	assert.Equal(t, "Pending", cell(SheetContracts, "H2"))
	assert.Equal(t, "Overdue", cell(SheetContracts, "I2"))
	assert.Equal(t, "C1", cell(SheetOverdue, "A2"))
	assert.Equal(t, "$5,000", cell(SheetOverdue, "D2"))
	assert.Equal(t, "", cell(SheetUpcoming, "A2"))
}
