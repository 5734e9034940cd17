// Package fixtures は同梱JSONデータセットを読み込む Fixture Store です。
// データセットは生成時に一度だけ読み込まれ、以降は読み取り専用です。
// 読み込みに失敗したデータセットは組み込みのデフォルト値に縮退し、呼び出し側にエラーを返しません。
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

//go:embed data/*.json
var embedded embed.FS

const (
	stocksFile    = "stocks.json"
	sentimentFile = "sentiment-fallback.json"
	mentionsFile  = "mentions-fallback.json"
	redditFile    = "reddit-posts.json"
	templatesFile = "mock-templates.json"

	// DefaultSymbol はフォールバック表に銘柄が無い場合に使う行です。
	DefaultSymbol = "AAPL"
)

// EmbeddedFS は同梱データセットを返します。
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// embed パターンが固定なので到達しない
		panic(err)
	}
	return sub
}

// FS は dir が空なら同梱データ、そうでなければディレクトリを返します。
func FS(dir string) fs.FS {
	if dir == "" {
		return EmbeddedFS()
	}
	return os.DirFS(dir)
}

// PostTemplate はモック投稿を合成するためのテンプレートです。
type PostTemplate struct {
	TitleTemplate   string                `json:"titleTemplate"`
	ContentTemplate string                `json:"contentTemplate"`
	Author          string                `json:"author"`
	Upvotes         int                   `json:"upvotes"`
	Comments        int                   `json:"comments"`
	Sentiment       entity.Classification `json:"sentiment"`
	SentimentScore  float64               `json:"sentimentScore"`
}

type sentimentRow struct {
	SentimentScore     int     `json:"sentimentScore"`
	TotalMentions      int     `json:"totalMentions"`
	PositivePercentage float64 `json:"positivePercentage"`
	NegativePercentage float64 `json:"negativePercentage"`
	NeutralPercentage  float64 `json:"neutralPercentage"`
	TwitterMentions    int     `json:"twitterMentions"`
	RedditMentions     int     `json:"redditMentions"`
	StocktwitsMentions int     `json:"stocktwitsMentions"`
	SentimentTrend     float64 `json:"sentimentTrend"`
	VolumeTrend        float64 `json:"volumeTrend"`
}

// Store は読み込み済みデータセットへの純粋なキー参照を提供します。
type Store struct {
	stocks        []entity.StockOption
	sentiment     map[string]sentimentRow
	defaultSymbol string
	mentions      []entity.Mention
	reddit        map[string]map[string]entity.RedditSentimentSnapshot
	templates     []PostTemplate
	now           func() time.Time
}

// Option は Store の生成オプションです。
type Option func(*Store)

// WithClock は lastUpdated に使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New は fsys から全データセットを読み込みます。失敗しても nil を返すことはありません。
func New(fsys fs.FS, opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}

	s.stocks = loadStocks(fsys)
	s.sentiment, s.defaultSymbol = loadSentiment(fsys)
	s.mentions = loadMentions(fsys)
	s.reddit = loadReddit(fsys)
	s.templates = loadTemplates(fsys)
	return s
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func loadStocks(fsys fs.FS) []entity.StockOption {
	var doc struct {
		Stocks []entity.StockOption `json:"stocks"`
	}
	if err := readJSON(fsys, stocksFile, &doc); err != nil || len(doc.Stocks) == 0 {
		slog.Warn("stock catalog unreadable, using built-in default", "error", err)
		return []entity.StockOption{defaultStock()}
	}
	return doc.Stocks
}

func loadSentiment(fsys fs.FS) (map[string]sentimentRow, string) {
	var doc struct {
		DefaultSymbol string                  `json:"defaultSymbol"`
		Rows          map[string]sentimentRow `json:"fallbackSentimentData"`
	}
	if err := readJSON(fsys, sentimentFile, &doc); err != nil {
		slog.Warn("fallback sentiment table unreadable, using built-in default", "error", err)
		return nil, ""
	}
	def := doc.DefaultSymbol
	if def == "" {
		def = DefaultSymbol
	}
	return doc.Rows, def
}

func loadMentions(fsys fs.FS) []entity.Mention {
	var doc struct {
		Mentions []entity.Mention `json:"fallbackMentions"`
	}
	if err := readJSON(fsys, mentionsFile, &doc); err != nil {
		slog.Warn("fallback mentions unreadable", "error", err)
		return nil
	}
	return doc.Mentions
}

func loadReddit(fsys fs.FS) map[string]map[string]entity.RedditSentimentSnapshot {
	var doc struct {
		Data map[string]map[string]entity.RedditSentimentSnapshot `json:"redditData"`
	}
	if err := readJSON(fsys, redditFile, &doc); err != nil {
		slog.Warn("reddit fixtures unreadable, every lookup will miss", "error", err)
		return nil
	}
	return doc.Data
}

func loadTemplates(fsys fs.FS) []PostTemplate {
	var doc struct {
		Templates struct {
			Posts []PostTemplate `json:"posts"`
		} `json:"templates"`
	}
	if err := readJSON(fsys, templatesFile, &doc); err != nil {
		slog.Warn("mock templates unreadable", "error", err)
		return nil
	}
	return doc.Templates.Posts
}

// StockOptions は銘柄カタログのコピーを返します。
func (s *Store) StockOptions() []entity.StockOption {
	return append([]entity.StockOption(nil), s.stocks...)
}

// StockBySymbol は銘柄を検索します。見つからなければ false を返します。
func (s *Store) StockBySymbol(symbol string) (entity.StockOption, bool) {
	for _, st := range s.stocks {
		if strings.EqualFold(st.Symbol, symbol) {
			return st, true
		}
	}
	return entity.StockOption{}, false
}

// RedditSnapshot は (stock, subreddit) の固定スナップショットを返します。
// 返り値はコピーなので呼び出し側で加工して構いません。
func (s *Store) RedditSnapshot(stock, subreddit string) (entity.RedditSentimentSnapshot, bool) {
	bySub, ok := s.reddit[stock]
	if !ok {
		return entity.RedditSentimentSnapshot{}, false
	}
	snap, ok := bySub[subreddit]
	if !ok {
		return entity.RedditSentimentSnapshot{}, false
	}
	return snap.Clone(), true
}

// FallbackSentiment は symbol のフォールバック集計を返します。
// 表に無い銘柄はデフォルト行、表自体が読めない場合は組み込み値を使います。
func (s *Store) FallbackSentiment(symbol string) entity.SentimentSnapshot {
	row, ok := s.sentiment[symbol]
	if !ok {
		row, ok = s.sentiment[s.defaultSymbol]
	}
	if !ok {
		return defaultSnapshot(symbol, s.now())
	}
	return entity.SentimentSnapshot{
		Symbol:             symbol,
		SentimentScore:     row.SentimentScore,
		TotalMentions:      row.TotalMentions,
		PositivePercentage: row.PositivePercentage,
		NegativePercentage: row.NegativePercentage,
		NeutralPercentage:  row.NeutralPercentage,
		TwitterMentions:    row.TwitterMentions,
		RedditMentions:     row.RedditMentions,
		StocktwitsMentions: row.StocktwitsMentions,
		SentimentTrend:     row.SentimentTrend,
		VolumeTrend:        row.VolumeTrend,
		LastUpdated:        s.now(),
		IsFallback:         true,
	}
}

// FallbackMentions は固定のフォールバック言及リストを返します。
// タイムスタンプはゼロ値のままで、呼び出し側が設定します。
// データセットが読めなかった場合は空で、呼び出し側はモック生成に進みます。
func (s *Store) FallbackMentions() []entity.Mention {
	return append([]entity.Mention(nil), s.mentions...)
}

// PostTemplates はモック投稿テンプレートを返します。読めなかった場合は nil です。
func (s *Store) PostTemplates() []PostTemplate {
	return append([]PostTemplate(nil), s.templates...)
}
