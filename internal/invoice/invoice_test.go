package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/LukasGLars/construction-buddy/internal/catalog"
	"github.com/LukasGLars/construction-buddy/internal/common"
	"github.com/LukasGLars/construction-buddy/internal/invoice"
	"github.com/LukasGLars/construction-buddy/internal/ledger"
)

func line(articleNo, name, category, unit, price string, qty int) ledger.Line {
	unitPrice := decimal.RequireFromString(price)
	return ledger.Line{
		Item:     catalog.Item{ArticleNo: articleNo, Name: name, Category: category, Unit: unit, UnitPrice: unitPrice},
		Quantity: qty,
		Subtotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestComputeSplitsLaborAndGoods(t *testing.T) {
	lines := []ledger.Line{
		line("A1", "Montering timpris", "ARBETE", "tim", "1000", 2),
		line("B1", "Kopparrör 22mm", "ROR", "m", "500", 1),
	}

	inv, err := invoice.Calculator{}.Compute(lines, "Anna Svensson", "P-2024-017")
	require.NoError(t, err)

	require.Equal(t, "500", inv.SubtotalGoods.String())
	require.Equal(t, "2000", inv.SubtotalLabor.String())
	require.Equal(t, "2500", inv.TotalBeforeDeduction.String())
	require.Equal(t, "600.00", inv.ROTDeduction.StringFixed(2))
	require.Equal(t, "1900.00", inv.TotalDue.StringFixed(2))
	require.Equal(t, "625.00", inv.VAT.StringFixed(2))
	require.Equal(t, "3125.00", inv.TotalInclVAT.StringFixed(2))
}

func TestComputeLaborCategoryIsCaseInsensitive(t *testing.T) {
	lines := []ledger.Line{
		line("A1", "Montering", "arbete", "tim", "800", 1),
		line("A2", "Installation", " Arbete ", "tim", "200", 1),
		line("B1", "Packning", "", "st", "40", 1),
	}

	inv, err := invoice.Calculator{}.Compute(lines, "Anna", "P1")
	require.NoError(t, err)
	require.Equal(t, "1000", inv.SubtotalLabor.String())
	require.Equal(t, "40", inv.SubtotalGoods.String())
}

func TestComputeEmptyLedger(t *testing.T) {
	inv, err := invoice.Calculator{}.Compute(nil, "Anna", "P1")
	require.NoError(t, err)
	require.True(t, inv.SubtotalGoods.IsZero())
	require.True(t, inv.SubtotalLabor.IsZero())
	require.True(t, inv.ROTDeduction.IsZero())
	require.True(t, inv.TotalDue.IsZero())
	require.Empty(t, inv.Lines)
}

func TestComputeRequiresCustomerAndProject(t *testing.T) {
	cases := [][2]string{
		{"", "P1"},
		{"Anna", ""},
		{"   ", "P1"},
		{"Anna", "\t"},
	}
	for _, tc := range cases {
		_, err := invoice.Calculator{}.Compute(nil, tc[0], tc[1])
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, "VALIDATION", appErr.Code)
	}
}

func TestComputeRoundsROTHalfUp(t *testing.T) {
	// 0.30 × 33.35 = 10.005, rounds to 10.01
	lines := []ledger.Line{line("A1", "Justering", "ARBETE", "tim", "33.35", 1)}

	inv, err := invoice.Calculator{}.Compute(lines, "Anna", "P1")
	require.NoError(t, err)
	require.Equal(t, "10.01", inv.ROTDeduction.StringFixed(2))
	require.Equal(t, "23.34", inv.TotalDue.StringFixed(2))
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []ledger.Line{
		line("A1", "Montering", "ARBETE", "tim", "1000", 2),
		line("B1", "Rör", "ROR", "m", "500", 3),
	}

	first, err := invoice.Calculator{}.Compute(lines, "Anna", "P1")
	require.NoError(t, err)
	second, err := invoice.Calculator{}.Compute(lines, "Anna", "P1")
	require.NoError(t, err)

	require.Equal(t, first.TotalDue.String(), second.TotalDue.String())
	require.Equal(t, first.ROTDeduction.String(), second.ROTDeduction.String())
	require.Equal(t, first.Lines, second.Lines)
}

func TestComputeCustomRates(t *testing.T) {
	lines := []ledger.Line{line("A1", "Montering", "ARBETE", "tim", "1000", 1)}

	inv, err := invoice.Calculator{ROTRateBps: 5000, VATRateBps: 1200}.Compute(lines, "Anna", "P1")
	require.NoError(t, err)
	require.Equal(t, "500.00", inv.ROTDeduction.StringFixed(2))
	require.Equal(t, "120.00", inv.VAT.StringFixed(2))
	require.Equal(t, "500.00", inv.TotalDue.StringFixed(2))
}

func TestIsLabor(t *testing.T) {
	require.True(t, invoice.IsLabor("ARBETE"))
	require.True(t, invoice.IsLabor("arbete"))
	require.True(t, invoice.IsLabor("  Arbete  "))
	require.False(t, invoice.IsLabor("ARBETEN"))
	require.False(t, invoice.IsLabor(""))
	require.False(t, invoice.IsLabor("ROR"))
}
