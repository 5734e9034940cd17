package catalog

import (
	"time"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

// StockModel は stocks テーブルの GORM モデルです。
type StockModel struct {
	Symbol    string  `gorm:"primaryKey;size:16"`
	Name      string  `gorm:"size:128;not null"`
	Icon      string  `gorm:"size:16"`
	Price     float64 `gorm:"not null"`
	Change    float64 `gorm:"column:change_pct;not null"`
	Sector    string  `gorm:"size:64"`
	MarketCap string  `gorm:"size:32"`
	SortKey   int     `gorm:"not null;default:0;index"`
	UpdatedAt time.Time
}

// TableName はテーブル名を固定します。
func (StockModel) TableName() string { return "stocks" }

func (m StockModel) toEntity() entity.StockOption {
	return entity.StockOption{
		Symbol:    m.Symbol,
		Name:      m.Name,
		Icon:      m.Icon,
		Price:     m.Price,
		Change:    m.Change,
		Sector:    m.Sector,
		MarketCap: m.MarketCap,
	}
}

func fromEntity(s entity.StockOption, sortKey int) StockModel {
	return StockModel{
		Symbol:    s.Symbol,
		Name:      s.Name,
		Icon:      s.Icon,
		Price:     s.Price,
		Change:    s.Change,
		Sector:    s.Sector,
		MarketCap: s.MarketCap,
		SortKey:   sortKey,
	}
}
