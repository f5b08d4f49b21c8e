package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(0), "0"},
		{decimal.NewFromInt(500), "500"},
		{decimal.NewFromInt(5000), "5,000"},
		{decimal.NewFromInt(120000), "120,000"},
		{decimal.NewFromInt(1250000), "1,250,000"},
		{decimal.RequireFromString("1234.5"), "1,234.5"},
		{decimal.RequireFromString("1234.567"), "1,234.57"},
		{decimal.RequireFromString("0.10"), "0.1"},
		{decimal.RequireFromString("-2500.25"), "-2,500.25"},
		{decimal.RequireFromString("12345678901234567.89"), "12,345,678,901,234,567.89"},
		{decimal.RequireFromString("123456789012345678901234"), "123,456,789,012,345,678,901,234"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.in))
		})
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$75,000", Money(decimal.NewFromInt(75000)))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "8/15/2024", Date(time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", Date(time.Time{}))
}
