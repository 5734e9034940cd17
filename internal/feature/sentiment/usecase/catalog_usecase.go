package usecase

import (
	"context"
	"errors"
	"log/slog"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

// CatalogUsecase は銘柄カタログを提供します。
// SQL カタログが未設定・失敗・空の場合はフィクスチャに縮退します。
type CatalogUsecase struct {
	repo  CatalogRepository
	store FixtureStore
}

// NewCatalogUsecase creates a CatalogUsecase. repo may be nil.
func NewCatalogUsecase(repo CatalogRepository, store FixtureStore) *CatalogUsecase {
	return &CatalogUsecase{repo: repo, store: store}
}

// Stocks returns the selectable stocks. It never fails.
func (u *CatalogUsecase) Stocks(ctx context.Context) []entity.StockOption {
	if u.repo != nil {
		stocks, err := u.repo.List(ctx)
		switch {
		case err != nil:
			slog.Warn("stock catalog query failed, using fixtures", "error", err)
		case len(stocks) == 0:
			slog.Debug("stock catalog is empty, using fixtures")
		default:
			return stocks
		}
	}
	return u.store.StockOptions()
}

// Stock returns one stock or ErrStockNotFound.
func (u *CatalogUsecase) Stock(ctx context.Context, symbol string) (entity.StockOption, error) {
	symbol = NormalizeSymbol(symbol)
	if u.repo != nil {
		st, err := u.repo.FindBySymbol(ctx, symbol)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ErrStockNotFound) {
			slog.Warn("stock catalog lookup failed, using fixtures", "symbol", symbol, "error", err)
		}
	}
	st, ok := u.store.StockBySymbol(symbol)
	if !ok {
		return entity.StockOption{}, ErrStockNotFound
	}
	return st, nil
}

// Symbols returns the symbols of the current catalog in display order.
func (u *CatalogUsecase) Symbols(ctx context.Context) []string {
	stocks := u.Stocks(ctx)
	out := make([]string, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, s.Symbol)
	}
	return out
}
