package money_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/posadmin-api/pkg/money"
)

func TestFormat_InvoicePrecision(t *testing.T) {
	f := money.NewFormatter(money.InvoiceOptions())

	assert.Equal(t, "TZS 1,000,000.00", f.Format(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "TZS 18,000.00", f.Format(decimal.NewFromInt(18_000)))
	assert.Equal(t, "TZS 0.00", f.Format(decimal.Zero))
	assert.Equal(t, "TZS 12.35", f.Format(decimal.RequireFromString("12.345")))
}

func TestFormat_ReportPrecision(t *testing.T) {
	f := money.NewFormatter(money.ReportOptions())

	assert.Equal(t, "TZS 1,000,000", f.Format(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "TZS 100", f.Format(decimal.RequireFromString("99.6")))
}

func TestFormat_NegativeKeepsSign(t *testing.T) {
	f := money.NewFormatter(money.InvoiceOptions())
	assert.Equal(t, "-TZS 50,000.00", f.Format(decimal.NewFromInt(-50_000)))
}

func TestFormat_NegativeRoundingToZeroHasNoSign(t *testing.T) {
	f := money.NewFormatter(money.InvoiceOptions())
	assert.Equal(t, "TZS 0.00", f.Format(decimal.RequireFromString("-0.001")))
}

func TestFormatFloat_NaNAndInfAreZero(t *testing.T) {
	f := money.NewFormatter(money.InvoiceOptions())

	assert.Equal(t, "TZS 0.00", f.FormatFloat(math.NaN()))
	assert.Equal(t, "TZS 0.00", f.FormatFloat(math.Inf(1)))
	assert.Equal(t, "TZS 0.00", f.FormatFloat(math.Inf(-1)))
	assert.Equal(t, "TZS 2,500.50", f.FormatFloat(2500.5))
}

func TestNewFormatter_NormalizesOptions(t *testing.T) {
	f := money.NewFormatter(money.FormatOptions{Currency: "???", Locale: "", MinFractionDigits: -1, MaxFractionDigits: -3})
	opts := f.Options()

	assert.Equal(t, "TZS", opts.Currency)
	assert.Equal(t, 0, opts.MinFractionDigits)
	assert.Equal(t, 0, opts.MaxFractionDigits)
	assert.Equal(t, "TZS 7", f.Format(decimal.NewFromInt(7)))
}

func TestNewFormatter_OtherCurrency(t *testing.T) {
	f := money.NewFormatter(money.FormatOptions{Currency: "usd", Locale: "en", MinFractionDigits: 2, MaxFractionDigits: 2})
	assert.Equal(t, "USD 10.00", f.Format(decimal.NewFromInt(10)))
}

func TestFormat_LargeAmountsKeepEveryDigit(t *testing.T) {
	f := money.NewFormatter(money.InvoiceOptions())

	assert.Equal(t, "TZS 12,345,678,901,234,567.89", f.Format(decimal.RequireFromString("12345678901234567.89")))
	assert.Equal(t, "-TZS 9,007,199,254,740,993.01", f.Format(decimal.RequireFromString("-9007199254740993.01")))
}

func TestFormat_TrimsFractionDownToMin(t *testing.T) {
	f := money.NewFormatter(money.FormatOptions{Currency: "TZS", Locale: "en", MinFractionDigits: 0, MaxFractionDigits: 2})

	assert.Equal(t, "TZS 1,500", f.Format(decimal.NewFromInt(1500)))
	assert.Equal(t, "TZS 1,500.5", f.Format(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "TZS 123", f.Format(decimal.NewFromInt(123)))
}
