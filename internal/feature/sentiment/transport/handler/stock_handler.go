// Package handler は sentiment 機能の gin ハンドラを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment_backend/internal/api"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/feature/sentiment/transport/http/dto"
	"sentiment_backend/internal/feature/sentiment/usecase"
)

// CatalogUsecase は銘柄カタログのユースケースです。
type CatalogUsecase interface {
	Stocks(ctx context.Context) []entity.StockOption
	Stock(ctx context.Context, symbol string) (entity.StockOption, error)
}

// StockHandler serves the stock catalog.
type StockHandler struct {
	uc CatalogUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc CatalogUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List handles GET /stocks.
func (h *StockHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewStockList(h.uc.Stocks(c.Request.Context())))
}

// Get handles GET /stocks/:symbol. 未知の銘柄は 404 です。
func (h *StockHandler) Get(c *gin.Context) {
	st, err := h.uc.Stock(c.Request.Context(), c.Param("symbol"))
	if errors.Is(err, usecase.ErrStockNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "stock not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewStockItem(st))
}
