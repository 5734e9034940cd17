package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/feature/sentiment/usecase"
)

// mockCatalog は CatalogUsecase のモック実装です。
type mockCatalog struct {
	stocks  []entity.StockOption
	findErr error
}

func (m *mockCatalog) Stocks(context.Context) []entity.StockOption { return m.stocks }

func (m *mockCatalog) Stock(_ context.Context, symbol string) (entity.StockOption, error) {
	if m.findErr != nil {
		return entity.StockOption{}, m.findErr
	}
	for _, s := range m.stocks {
		if s.Symbol == symbol {
			return s, nil
		}
	}
	return entity.StockOption{}, usecase.ErrStockNotFound
}

var apple = entity.StockOption{
	Symbol: "AAPL", Name: "Apple Inc. (AAPL)", Icon: "🍎",
	Price: 195.32, Change: 2.4, Sector: "Technology", MarketCap: "3000000000000",
}

const appleJSON = `{"symbol":"AAPL","name":"Apple Inc. (AAPL)","icon":"🍎","price":195.32,"change":2.4,"sector":"Technology","marketCap":"3000000000000","marketCapLabel":"$3 T"}`

// TestStockHandler は銘柄カタログの各種シナリオを検証します。
func TestStockHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		catalog    *mockCatalog
		path       string
		wantStatus int
		wantBody   string
	}{
		{"list", &mockCatalog{stocks: []entity.StockOption{apple}}, "/stocks", http.StatusOK, "[" + appleJSON + "]"},
		{"empty list is an array", &mockCatalog{}, "/stocks", http.StatusOK, `[]`},
		{"found", &mockCatalog{stocks: []entity.StockOption{apple}}, "/stocks/AAPL", http.StatusOK, appleJSON},
		{"not found", &mockCatalog{}, "/stocks/ZZZZ", http.StatusNotFound, `{"error":"stock not found"}`},
		{"unexpected error", &mockCatalog{findErr: errors.New("db down")}, "/stocks/AAPL", http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewStockHandler(tt.catalog)
			r := gin.New()
			r.GET("/stocks", h.List)
			r.GET("/stocks/:symbol", h.Get)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
