package excel

import (
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/amc-manager/internal/model"
)

const (
	SheetSummary   = "Summary"
	SheetContracts = "Contracts"
	SheetUpcoming  = "Upcoming"
	SheetOverdue   = "Overdue"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.DashboardReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	g.writeSummary(file, report)

	for _, sheet := range []string{SheetContracts, SheetUpcoming, SheetOverdue} {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	g.writeContracts(file, report.Rows)
	g.writeReminders(file, SheetUpcoming, report.Upcoming)
	g.writeReminders(file, SheetOverdue, report.Overdue)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report model.DashboardReport) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(SheetSummary, cell, value)
	}

	set("A1", "Generated at")
	set("B1", formatDateTime(report.GeneratedAt))
	set("A2", "Total contracts")
	set("B2", report.Stats.TotalContracts)
	set("A3", "Total customers")
	set("B3", report.Stats.TotalCustomers)
	set("A4", "Renewals (30 days)")
	set("B4", len(report.Stats.UpcomingRenewals))
	set("A5", "Overdue actions")
	set("B5", len(report.Stats.OverduePayments))

	_ = file.SetColWidth(SheetSummary, "A", "A", 24)
	_ = file.SetColWidth(SheetSummary, "B", "B", 22)
}

func (g *Generator) writeContracts(file *excelize.File, rows []model.ContractRow) {
	headers := []string{
		"Contract",
		"Customer",
		"Deal closed",
		"Deal amount",
		"AMC amount",
		"Duration (months)",
		"Renewal date",
		"Stored status",
		"Status",
	}
	writeHeader(file, SheetContracts, headers)

	for i, row := range rows {
		c := row.Contract
		writeRow(file, SheetContracts, i+2, []interface{}{
			c.ID,
			row.CustomerName,
			formatDate(c.DealClosedDate),
			c.DealAmount.InexactFloat64(),
			c.AMCAmount.InexactFloat64(),
			int(c.DurationInMonths),
			formatDate(c.RenewalDate),
			string(c.PaymentStatus),
			string(row.EffectiveStatus),
		})
	}

	_ = file.SetColWidth(SheetContracts, "A", "A", 18)
	_ = file.SetColWidth(SheetContracts, "B", "B", 32)
	_ = file.SetColWidth(SheetContracts, "C", "I", 16)
}

func (g *Generator) writeReminders(file *excelize.File, sheet string, reminders []model.Reminder) {
	writeHeader(file, sheet, []string{"Contract", "Customer", "Due date", "AMC amount"})
	for i, r := range reminders {
		writeRow(file, sheet, i+2, []interface{}{
			r.ContractID,
			r.CustomerName,
			formatDate(r.DueDate),
			r.AMCAmount,
		})
	}
	_ = file.SetColWidth(sheet, "A", "A", 18)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "D", 16)
}

func writeHeader(file *excelize.File, sheet string, headers []string) {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	writeRow(file, sheet, 1, values)
}

func writeRow(file *excelize.File, sheet string, row int, values []interface{}) {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = file.SetCellValue(sheet, cell, value)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
