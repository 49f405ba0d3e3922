package invoice

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	lineWidth = 100
	nameWidth = 25
)

// Renderer formats an invoice as a fixed-layout plain-text document. The
// layout is locale-fixed Swedish: two decimal places and a currency suffix.
// Column widths count runes, not bytes, so names with å/ä/ö line up.
type Renderer struct {
	Currency   string
	ROTRateBps int
	VATRateBps int
}

func (r Renderer) currency() string {
	if strings.TrimSpace(r.Currency) == "" {
		return "kr"
	}
	return r.Currency
}

func (r Renderer) percentLabel(bps, fallback int) string {
	if bps <= 0 {
		bps = fallback
	}
	return fmt.Sprintf("%d%%", bps/100)
}

// Render produces the invoice document. The generation date comes from the
// caller so the output is a pure function of its inputs.
func (r Renderer) Render(inv Invoice, date time.Time) string {
	cur := r.currency()
	var b strings.Builder

	b.WriteString("FAKTURA\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "Kund: %s\n", inv.CustomerName)
	fmt.Fprintf(&b, "Projekt: %s\n", inv.ProjectNo)
	fmt.Fprintf(&b, "Datum: %s\n", date.Format("2006-01-02"))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-4s %s %s %6s %s %10s %12s\n",
		"Pos", padRunes("Art.nr", 12), padRunes("Beskrivning", nameWidth),
		"Antal", padRunes("Enhet", 8), "A-pris", "Belopp")
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")

	for i, line := range inv.Lines {
		fmt.Fprintf(&b, "%-4d %s %s %6d %s %10s %12s\n",
			i+1, padRunes(line.ArticleNo, 12), padRunes(truncRunes(line.Name, nameWidth), nameWidth),
			line.Quantity, padRunes(line.Unit, 8),
			line.UnitPrice.StringFixed(2), line.Subtotal.StringFixed(2))
	}

	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	r.total(&b, "MATERIAL:", inv.SubtotalGoods.StringFixed(2), cur)
	r.total(&b, "ARBETE:", inv.SubtotalLabor.StringFixed(2), cur)
	r.total(&b, "TOTAL EXKL MOMS:", inv.TotalBeforeDeduction.StringFixed(2), cur)
	r.total(&b, fmt.Sprintf("MOMS (%s):", r.percentLabel(r.VATRateBps, 2500)), inv.VAT.StringFixed(2), cur)
	r.total(&b, "TOTAL INKL MOMS:", inv.TotalInclVAT.StringFixed(2), cur)
	b.WriteString("\n")
	if !inv.ROTDeduction.IsZero() {
		r.total(&b, fmt.Sprintf("ROT-AVDRAG (%s av arbetskostnad):", r.percentLabel(r.ROTRateBps, 3000)), "-"+inv.ROTDeduction.StringFixed(2), cur)
	}
	r.total(&b, "ATT BETALA:", inv.TotalDue.StringFixed(2), cur)

	return b.String()
}

func (r Renderer) total(b *strings.Builder, label, amount, currency string) {
	fmt.Fprintf(b, "%70s %12s %s\n", label, amount, currency)
}

// truncRunes cuts the string to at most n runes without splitting a
// multi-byte character.
func truncRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// padRunes left-aligns the string in a field of n runes.
func padRunes(s string, n int) string {
	if count := utf8.RuneCountInString(s); count < n {
		return s + strings.Repeat(" ", n-count)
	}
	return s
}

// Filename derives the download name for a rendered invoice.
func Filename(projectNo string, date time.Time) string {
	cleaned := strings.Map(func(ch rune) rune {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			return ch
		default:
			return '-'
		}
	}, strings.TrimSpace(projectNo))
	return fmt.Sprintf("faktura_%s_%s.txt", cleaned, date.Format("2006-01-02"))
}
