package fixtures

import (
	"time"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

func defaultStock() entity.StockOption {
	return entity.StockOption{
		Symbol:    "AAPL",
		Name:      "Apple Inc. (AAPL)",
		Icon:      "🍎",
		Price:     195.32,
		Change:    2.4,
		Sector:    "Technology",
		MarketCap: "3000000000000",
	}
}

func defaultSnapshot(symbol string, now time.Time) entity.SentimentSnapshot {
	return entity.SentimentSnapshot{
		Symbol:             symbol,
		SentimentScore:     75,
		TotalMentions:      1000,
		PositivePercentage: 60,
		NegativePercentage: 25,
		NeutralPercentage:  15,
		TwitterMentions:    400,
		RedditMentions:     350,
		StocktwitsMentions: 250,
		SentimentTrend:     5.0,
		VolumeTrend:        0,
		LastUpdated:        now,
		IsFallback:         true,
	}
}
