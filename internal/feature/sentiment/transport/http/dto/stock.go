package dto

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

// StockItem is one entry of GET /stocks.
type StockItem struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	Sector    string  `json:"sector"`
	MarketCap string  `json:"marketCap"`

	// MarketCapLabel は表示用の短縮表記（例: "$3 T"）です。
	MarketCapLabel string `json:"marketCapLabel,omitempty"`
}

// NewStockItem converts a catalog entry.
func NewStockItem(s entity.StockOption) StockItem {
	return StockItem{
		Symbol:    s.Symbol,
		Name:      s.Name,
		Icon:      s.Icon,
		Price:     s.Price,
		Change:    s.Change,
		Sector:    s.Sector,
		MarketCap: s.MarketCap,

		MarketCapLabel: marketCapLabel(s.MarketCap),
	}
}

func marketCapLabel(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return ""
	}
	return "$" + humanize.SIWithDigits(v, 1, "")
}

// NewStockList converts a catalog. nil は空配列になります。
func NewStockList(stocks []entity.StockOption) []StockItem {
	out := make([]StockItem, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, NewStockItem(s))
	}
	return out
}
