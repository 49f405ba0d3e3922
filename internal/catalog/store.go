package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested article is not in the catalog.
var ErrNotFound = errors.New("article not found")

// Store is the catalog's only contract with the external item store: given
// a filter, return matching rows or a connectivity error.
type Store interface {
	Search(ctx context.Context, query string, limit int) ([]Item, error)
	List(ctx context.Context, limit int) ([]Item, error)
	Get(ctx context.Context, articleNo string) (Item, error)
}

// PGStore reads catalog rows from the invoice_master table in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const itemColumns = `COALESCE(item_no, ''), COALESCE(item, ''), COALESCE(category, ''), COALESCE(unit, ''), COALESCE(price, 0)::text`

// Search matches the query case-insensitively against name, article number,
// and category. Row ordering is whatever Postgres returns for the stable
// item_no sort; no further ordering contract exists.
func (s PGStore) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	pattern := "%" + escapeLike(query) + "%"
	sql := `SELECT ` + itemColumns + `
FROM invoice_master
WHERE item ILIKE $1 OR item_no ILIKE $1 OR category ILIKE $1
ORDER BY item_no
LIMIT $2`
	rows, err := s.Pool.Query(ctx, sql, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// List returns catalog rows up to the limit without filtering.
func (s PGStore) List(ctx context.Context, limit int) ([]Item, error) {
	sql := `SELECT ` + itemColumns + `
FROM invoice_master
ORDER BY item_no
LIMIT $1`
	rows, err := s.Pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Get fetches a single article by its exact article number.
func (s PGStore) Get(ctx context.Context, articleNo string) (Item, error) {
	sql := `SELECT ` + itemColumns + `
FROM invoice_master
WHERE item_no = $1
LIMIT 1`
	row := s.Pool.QueryRow(ctx, sql, articleNo)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get article: %w", err)
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	items := make([]Item, 0, 16)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}
	return items, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var (
		item  Item
		price string
	)
	if err := row.Scan(&item.ArticleNo, &item.Name, &item.Category, &item.Unit, &price); err != nil {
		return Item{}, err
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return Item{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	item.UnitPrice = parsed
	return item, nil
}

// escapeLike neutralises LIKE metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
