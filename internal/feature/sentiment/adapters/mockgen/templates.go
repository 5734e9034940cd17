package mockgen

import (
	"sentiment_backend/internal/feature/sentiment/adapters/fixtures"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

// builtinTemplates are used when the template dataset is missing or has no usable entry.
var builtinTemplates = []fixtures.PostTemplate{
	{
		TitleTemplate:   "{stock} showing strong technical signals",
		ContentTemplate: "Recent price action and volume patterns suggest underlying strength.",
		Author:          "TechnicalAnalyst",
		Upvotes:         245,
		Comments:        67,
		Sentiment:       entity.Bullish,
		SentimentScore:  78,
	},
	{
		TitleTemplate:   "Concerns about {stock} valuation metrics",
		ContentTemplate: "Current valuation seems stretched given the macroeconomic headwinds.",
		Author:          "ValueInvestor",
		Upvotes:         134,
		Comments:        45,
		Sentiment:       entity.Bearish,
		SentimentScore:  25,
	},
	{
		TitleTemplate:   "{stock} quarterly results discussion thread",
		ContentTemplate: "Mixed results this quarter. Overall outlook remains uncertain.",
		Author:          "EarningsTracker",
		Upvotes:         89,
		Comments:        23,
		Sentiment:       entity.Neutral,
		SentimentScore:  52,
	},
}

// usable drops templates that would produce an inconsistent post.
func usable(tpls []fixtures.PostTemplate) []fixtures.PostTemplate {
	out := make([]fixtures.PostTemplate, 0, len(tpls))
	for _, t := range tpls {
		if t.TitleTemplate == "" || !t.Sentiment.Valid() || t.Upvotes < 0 || t.Comments < 0 {
			continue
		}
		if t.Author == "" {
			t.Author = "Anonymous"
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return builtinTemplates
	}
	return out
}
