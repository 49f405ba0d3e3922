package catalog

import "github.com/shopspring/decimal"

// LaborCategory is the distinguished category marking labor rows. Line items
// in this category qualify for the ROT deduction.
const LaborCategory = "ARBETE"

// Item is a single catalog row as served to clients. Items are read-only;
// they live for the duration of one search response.
type Item struct {
	ArticleNo string          `json:"articleNo"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
