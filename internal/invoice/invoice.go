package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LukasGLars/construction-buddy/internal/catalog"
	"github.com/LukasGLars/construction-buddy/internal/common"
	"github.com/LukasGLars/construction-buddy/internal/ledger"
)

// Invoice is the computed totals breakdown for one ledger snapshot. It is
// ephemeral and never persisted; the generation date is supplied by the
// caller at render time.
type Invoice struct {
	CustomerName string        `json:"customerName"`
	ProjectNo    string        `json:"projectNo"`
	Lines        []ledger.Line `json:"lines"`

	SubtotalGoods decimal.Decimal `json:"subtotalGoods"`
	SubtotalLabor decimal.Decimal `json:"subtotalLabor"`
	// VAT and TotalInclVAT carry Swedish moms on the pre-deduction total.
	VAT                  decimal.Decimal `json:"vat"`
	TotalInclVAT         decimal.Decimal `json:"totalInclVat"`
	ROTDeduction         decimal.Decimal `json:"rotDeduction"`
	TotalBeforeDeduction decimal.Decimal `json:"totalBeforeDeduction"`
	TotalDue             decimal.Decimal `json:"totalDue"`
}

// Calculator computes invoice totals. Rates are basis points; zero values
// fall back to the statutory 30% ROT and 25% moms.
type Calculator struct {
	ROTRateBps int
	VATRateBps int
}

func (c Calculator) rotRate() decimal.Decimal {
	bps := c.ROTRateBps
	if bps <= 0 {
		bps = 3000
	}
	return decimal.New(int64(bps), -4)
}

func (c Calculator) vatRate() decimal.Decimal {
	bps := c.VATRateBps
	if bps <= 0 {
		bps = 2500
	}
	return decimal.New(int64(bps), -4)
}

// Compute derives the invoice totals from a ledger snapshot. It is a pure
// function of its inputs. An empty snapshot yields a zero-value invoice,
// which is a valid outcome; whether to allow generating one is the
// caller's policy.
//
// Only lines whose category equals "ARBETE" (case-insensitive) count as
// labor; everything else, the empty category included, is goods. The ROT
// deduction is 30% of the labor subtotal rounded half-up to two decimals,
// so TotalDue can never go below zero.
func (c Calculator) Compute(lines []ledger.Line, customerName, projectNo string) (Invoice, error) {
	customerName = strings.TrimSpace(customerName)
	projectNo = strings.TrimSpace(projectNo)
	if customerName == "" || projectNo == "" {
		return Invoice{}, common.ValidationError("missing customer information", nil)
	}

	goods := decimal.Zero
	labor := decimal.Zero
	for _, line := range lines {
		if IsLabor(line.Category) {
			labor = labor.Add(line.Subtotal)
		} else {
			goods = goods.Add(line.Subtotal)
		}
	}

	before := goods.Add(labor)
	rot := labor.Mul(c.rotRate()).Round(2)
	vat := before.Mul(c.vatRate()).Round(2)

	snapshot := make([]ledger.Line, len(lines))
	copy(snapshot, lines)

	return Invoice{
		CustomerName:         customerName,
		ProjectNo:            projectNo,
		Lines:                snapshot,
		SubtotalGoods:        goods,
		SubtotalLabor:        labor,
		VAT:                  vat,
		TotalInclVAT:         before.Add(vat),
		ROTDeduction:         rot,
		TotalBeforeDeduction: before,
		TotalDue:             before.Sub(rot),
	}, nil
}

// IsLabor reports whether a category marks a labor line. Matching is a
// case-insensitive exact comparison of the trimmed category.
func IsLabor(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), catalog.LaborCategory)
}
