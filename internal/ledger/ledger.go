package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/LukasGLars/construction-buddy/internal/catalog"
)

// ErrNotFound indicates the referenced article is not in the ledger.
var ErrNotFound = errors.New("article not in ledger")

// ErrInvalidInput is returned when the provided quantity is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Line is one selected catalog item with its quantity and derived subtotal.
type Line struct {
	catalog.Item
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Ledger is the in-session ordered collection of selected items pending
// invoicing. It is keyed by article number: re-adding an article merges by
// incrementing the existing quantity instead of duplicating the row.
// Insertion order is the authoritative order for invoice rendering.
type Ledger struct {
	mu    sync.Mutex
	lines []Line
	index map[string]int
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add appends the item with the given quantity, or increments the quantity
// of an existing line for the same article number.
func (l *Ledger) Add(item catalog.Item, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be a positive integer: %w", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i, ok := l.index[item.ArticleNo]; ok {
		line := &l.lines[i]
		line.Quantity += quantity
		line.Subtotal = subtotal(line.UnitPrice, line.Quantity)
		return nil
	}
	l.lines = append(l.lines, Line{
		Item:     item,
		Quantity: quantity,
		Subtotal: subtotal(item.UnitPrice, quantity),
	})
	l.index[item.ArticleNo] = len(l.lines) - 1
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (l *Ledger) SetQuantity(articleNo string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be a positive integer: %w", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[articleNo]
	if !ok {
		return ErrNotFound
	}
	line := &l.lines[i]
	line.Quantity = quantity
	line.Subtotal = subtotal(line.UnitPrice, quantity)
	return nil
}

// Remove deletes a line, preserving the relative order of the rest.
func (l *Ledger) Remove(articleNo string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[articleNo]
	if !ok {
		return ErrNotFound
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	delete(l.index, articleNo)
	for j := i; j < len(l.lines); j++ {
		l.index[l.lines[j].ArticleNo] = j
	}
	return nil
}

// Clear empties the ledger. Clearing an empty ledger is a no-op.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.index = make(map[string]int)
}

// Snapshot returns a copy of the lines in insertion order.
func (l *Ledger) Snapshot() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len reports the number of lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
