package entity

// StockOption is a catalog entry shown in the stock selector.
type StockOption struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"` // daily change in percent
	Sector    string  `json:"sector"`
	MarketCap string  `json:"marketCap"`
}
