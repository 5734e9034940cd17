// Package catalog は銘柄カタログの GORM 実装を提供します。
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/feature/sentiment/usecase"
)

// stockRepository はCatalogRepositoryインターフェースのGORM実装です。
type stockRepository struct {
	db *gorm.DB
}

var _ usecase.CatalogRepository = (*stockRepository)(nil)

// NewStockRepository は指定されたDB接続でリポジトリを生成します。
func NewStockRepository(db *gorm.DB) *stockRepository {
	return &stockRepository{db: db}
}

// Migrate は stocks テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&StockModel{})
}

// List は sort_key 順にすべての銘柄を返します。
func (r *stockRepository) List(ctx context.Context) ([]entity.StockOption, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Order("sort_key ASC").
		Order("symbol ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.StockOption, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// FindBySymbol は銘柄を検索します。存在しない場合は usecase.ErrStockNotFound を返します。
func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (entity.StockOption, error) {
	var m StockModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", strings.ToUpper(symbol)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.StockOption{}, usecase.ErrStockNotFound
	}
	if err != nil {
		return entity.StockOption{}, err
	}
	return m.toEntity(), nil
}

// UpsertBatch は銘柄を一括で挿入し、既存の銘柄は更新します。並び順は引数の順序です。
func (r *stockRepository) UpsertBatch(ctx context.Context, stocks []entity.StockOption) error {
	if len(stocks) == 0 {
		return nil
	}
	rows := make([]StockModel, 0, len(stocks))
	for i, s := range stocks {
		rows = append(rows, fromEntity(s, i))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "price", "change_pct", "sector", "market_cap", "sort_key", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert stocks: %w", err)
	}
	return nil
}
