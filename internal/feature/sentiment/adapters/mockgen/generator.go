// Package mockgen synthesizes Reddit sentiment and mention lists when neither
// the live source nor a fixture has data. Generation never fails.
package mockgen

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"sentiment_backend/internal/feature/sentiment/adapters/fixtures"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/shared/random"
)

const (
	stockPlaceholder = "{stock}"
	upvoteJitter     = 100
	commentJitter    = 20
	scoreJitter      = 5
	mentionWindow    = 30 * time.Minute
)

// FixtureSource is the part of the Fixture Store the generator reads.
type FixtureSource interface {
	RedditSnapshot(stock, subreddit string) (entity.RedditSentimentSnapshot, bool)
	PostTemplates() []fixtures.PostTemplate
}

// Generator builds fallback entities from fixtures and templates.
type Generator struct {
	src FixtureSource
	rnd random.Source
	now func() time.Time
}

// New returns a Generator. A nil rnd uses the process-wide generator.
func New(src FixtureSource, rnd random.Source, now func() time.Time) *Generator {
	if rnd == nil {
		rnd = random.New()
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{src: src, rnd: rnd, now: now}
}

// Generate returns the fixture for (stock, subreddit) with refreshed timestamps
// when one exists, and a synthesized snapshot otherwise.
func (g *Generator) Generate(stock, subreddit string) entity.RedditSentimentSnapshot {
	now := g.now()
	if snap, ok := g.src.RedditSnapshot(stock, subreddit); ok {
		out := snap.Refreshed(now)
		out.Metadata.Source = entity.ProvenanceStatic
		return out
	}
	return g.synthesize(stock, subreddit, now)
}

func (g *Generator) synthesize(stock, subreddit string, now time.Time) entity.RedditSentimentSnapshot {
	tpls := usable(g.src.PostTemplates())

	posts := make([]entity.RedditPost, 0, len(tpls))
	for i, tpl := range tpls {
		n := i + 1
		posts = append(posts, entity.RedditPost{
			ID:             fmt.Sprintf("mock_post_%d", n),
			Title:          strings.ReplaceAll(tpl.TitleTemplate, stockPlaceholder, stock),
			Content:        strings.ReplaceAll(tpl.ContentTemplate, stockPlaceholder, stock),
			Author:         tpl.Author,
			Upvotes:        tpl.Upvotes + g.rnd.IntN(upvoteJitter),
			Comments:       tpl.Comments + g.rnd.IntN(commentJitter),
			Sentiment:      tpl.Sentiment,
			SentimentScore: clamp(tpl.SentimentScore+float64(g.rnd.IntN(2*scoreJitter+1)-scoreJitter), 0, 100),
			URL:            fmt.Sprintf("https://reddit.com/r/%s/comments/mock_%d", subreddit, n),
			Subreddit:      subreddit,
		})
	}
	slices.SortStableFunc(posts, func(a, b entity.RedditPost) int {
		return cmp.Compare(b.Upvotes, a.Upvotes)
	})

	var upvotes, comments int
	var scoreSum float64
	counts := map[entity.Classification]int{}
	for _, p := range posts {
		upvotes += p.Upvotes
		comments += p.Comments
		scoreSum += p.SentimentScore
		counts[p.Sentiment]++
	}
	pct := Percentages(counts[entity.Bullish], counts[entity.Bearish], counts[entity.Neutral])

	return entity.RedditSentimentSnapshot{
		Stock:              stock,
		Platform:           "reddit",
		Timestamp:          now,
		TotalMentions:      len(posts),
		SentimentScore:     int(math.Round(scoreSum / float64(len(posts)))),
		PositivePercentage: pct[0],
		NegativePercentage: pct[1],
		NeutralPercentage:  pct[2],
		TopPosts:           posts,
		Metadata: entity.RedditMetadata{
			Subreddit:     subreddit,
			TotalUpvotes:  upvotes,
			TotalComments: comments,
			ProcessedAt:   now,
			Source:        entity.ProvenanceFallback,
		},
	}
}

// GenerateMentions synthesizes up to limit generic mentions for symbol.
// Timestamps fall within the last 30 minutes.
func (g *Generator) GenerateMentions(symbol string, limit int) []entity.Mention {
	tpls := usable(g.src.PostTemplates())
	if limit <= 0 || limit > len(tpls) {
		limit = len(tpls)
	}
	now := g.now()

	out := make([]entity.Mention, 0, limit)
	for i, tpl := range tpls[:limit] {
		up := tpl.Upvotes + g.rnd.IntN(upvoteJitter)
		cm := tpl.Comments + g.rnd.IntN(commentJitter)
		score := clamp(tpl.SentimentScore/10+float64(g.rnd.IntN(11)-5)/10, 0, 10)
		out = append(out, entity.Mention{
			ID:             fmt.Sprintf("mock-mention-%d", i+1),
			Platform:       entity.PlatformReddit,
			Content:        strings.ReplaceAll(tpl.TitleTemplate, stockPlaceholder, symbol),
			Sentiment:      tpl.Sentiment,
			SentimentScore: math.Round(score*10) / 10,
			Author:         tpl.Author,
			Timestamp:      jitterTimestamp(now, g.rnd),
			Metadata:       entity.MentionMetrics{Upvotes: &up, Comments: &cm},
		})
	}
	return out
}

// jitterTimestamp returns a time uniformly within the 30 minutes before now.
func jitterTimestamp(now time.Time, rnd random.Source) time.Time {
	return now.Add(-time.Duration(rnd.Float64() * float64(mentionWindow)))
}

// Percentages converts class counts into integer percentages that sum to exactly 100
// using largest-remainder rounding. All zero counts yield 0/0/100.
func Percentages(bullish, bearish, neutral int) [3]float64 {
	total := bullish + bearish + neutral
	if total <= 0 {
		return [3]float64{0, 0, 100}
	}
	counts := [3]int{bullish, bearish, neutral}
	var out [3]float64
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, 3)
	assigned := 0
	for i, c := range counts {
		exact := float64(c) * 100 / float64(total)
		floor := math.Floor(exact)
		out[i] = floor
		assigned += int(floor)
		rems = append(rems, rem{idx: i, frac: exact - floor})
	}
	slices.SortStableFunc(rems, func(a, b rem) int { return cmp.Compare(b.frac, a.frac) })
	for i := 0; assigned < 100; i++ {
		out[rems[i%3].idx]++
		assigned++
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
