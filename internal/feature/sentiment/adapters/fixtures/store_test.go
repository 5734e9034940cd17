package fixtures_test

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment_backend/internal/feature/sentiment/adapters/fixtures"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newStore(t *testing.T) *fixtures.Store {
	t.Helper()
	return fixtures.New(fixtures.EmbeddedFS(), fixtures.WithClock(func() time.Time { return fixedNow }))
}

func TestStore_StockOptions(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	stocks := s.StockOptions()
	require.NotEmpty(t, stocks)
	assert.Equal(t, "AAPL", stocks[0].Symbol)

	// 返り値を変更してもストアに影響しない
	stocks[0].Symbol = "MUTATED"
	assert.Equal(t, "AAPL", s.StockOptions()[0].Symbol)
}

func TestStore_StockBySymbol(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	testCases := []struct {
		name   string
		symbol string
		found  bool
	}{
		{name: "known symbol", symbol: "TSLA", found: true},
		{name: "case insensitive", symbol: "googl", found: true},
		{name: "unknown symbol", symbol: "ZZZZ", found: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			st, ok := s.StockBySymbol(tc.symbol)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.NotEmpty(t, st.Name)
			}
		})
	}
}

func TestStore_RedditSnapshot(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	snap, ok := s.RedditSnapshot("AAPL", "stocks")
	require.True(t, ok)
	assert.Len(t, snap.TopPosts, 3)
	assert.Equal(t, 247, snap.TotalMentions)
	assert.Equal(t, entity.ProvenanceStatic, snap.Metadata.Source)
	assert.True(t, entity.PercentagesValid(snap.PositivePercentage, snap.NegativePercentage, snap.NeutralPercentage))

	_, ok = s.RedditSnapshot("AAPL", "wallstreetbets")
	assert.False(t, ok)
	_, ok = s.RedditSnapshot("ZZZZ", "stocks")
	assert.False(t, ok)
}

func TestStore_RedditSnapshot_Idempotent(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	a, ok := s.RedditSnapshot("TSLA", "stocks")
	require.True(t, ok)
	a.TopPosts[0].Title = "changed by caller"

	b, ok := s.RedditSnapshot("TSLA", "stocks")
	require.True(t, ok)
	c, ok := s.RedditSnapshot("TSLA", "stocks")
	require.True(t, ok)
	assert.Equal(t, b, c)
	assert.Equal(t, "Tesla FSD Beta shows impressive improvements", b.TopPosts[0].Title)
}

func TestStore_FallbackSentiment(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	aapl := s.FallbackSentiment("AAPL")
	assert.Equal(t, 87, aapl.SentimentScore)
	assert.Equal(t, 3200, aapl.TotalMentions)
	assert.True(t, aapl.IsFallback)
	assert.Equal(t, fixedNow, aapl.LastUpdated)
	assert.True(t, aapl.Valid())

	unknown := s.FallbackSentiment("ZZZZ")
	assert.Equal(t, "ZZZZ", unknown.Symbol)
	assert.Equal(t, 87, unknown.SentimentScore, "unknown symbols use the default row")
	assert.True(t, unknown.IsFallback)
}

func TestStore_FallbackMentions(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	ms := s.FallbackMentions()
	require.Len(t, ms, 3)
	assert.Equal(t, "fallback-1", ms[0].ID)
	assert.Equal(t, entity.PlatformTwitter, ms[0].Platform)
	require.NotNil(t, ms[0].Metadata.Likes)
	assert.Equal(t, 342, *ms[0].Metadata.Likes)
	assert.Equal(t, entity.Neutral, ms[2].Sentiment)
}

func TestStore_PostTemplates(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	tpls := s.PostTemplates()
	require.Len(t, tpls, 3)
	assert.Contains(t, tpls[0].TitleTemplate, "{stock}")
}

func TestStore_DegradesOnCorruptData(t *testing.T) {
	t.Parallel()

	corrupt := fstest.MapFS{
		"stocks.json":             {Data: []byte("{not json")},
		"sentiment-fallback.json": {Data: []byte("[]")},
		"mentions-fallback.json":  {Data: []byte(`{"fallbackMentions": []}`)},
		"reddit-posts.json":       {Data: []byte("nope")},
	}
	s := fixtures.New(corrupt, fixtures.WithClock(func() time.Time { return fixedNow }))

	stocks := s.StockOptions()
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)

	snap := s.FallbackSentiment("TSLA")
	assert.Equal(t, "TSLA", snap.Symbol)
	assert.Equal(t, 75, snap.SentimentScore)
	assert.Equal(t, 1000, snap.TotalMentions)
	assert.True(t, snap.Valid())

	assert.Empty(t, s.FallbackMentions())
	assert.Nil(t, s.PostTemplates())

	_, ok := s.RedditSnapshot("AAPL", "stocks")
	assert.False(t, ok)
}

func TestFS_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fixtures.New(fixtures.FS(dir))
	// 空ディレクトリでも縮退して動く
	assert.Len(t, s.StockOptions(), 1)
}
