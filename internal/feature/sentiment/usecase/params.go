package usecase

import "strings"

const (
	// DefaultSymbol は銘柄未指定時に使う銘柄です。
	DefaultSymbol = "AAPL"
	// DefaultSubreddit は subreddit 未指定時の値です。
	DefaultSubreddit = "stocks"
	// DefaultMentionLimit は言及リストのデフォルト件数です。
	DefaultMentionLimit = 10
	// MaxMentionLimit は言及リストの最大件数です。
	MaxMentionLimit = 100
	// DashboardMentionLimit はダッシュボード更新時の言及件数です。
	DashboardMentionLimit = 5
)

// NormalizeSymbol trims and uppercases a ticker, defaulting to DefaultSymbol.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultSymbol
	}
	return s
}

// NormalizeSubreddit trims, drops an "r/" prefix and lowercases, defaulting to DefaultSubreddit.
func NormalizeSubreddit(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "r/")
	if s == "" {
		return DefaultSubreddit
	}
	return s
}

// NormalizeLimit clamps a mention limit into [1, MaxMentionLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultMentionLimit
	}
	if limit > MaxMentionLimit {
		return MaxMentionLimit
	}
	return limit
}

// NormalizeWebhookPath validates a publish path relative to {base}/webhook/.
// Percent-encoded input is rejected so "%2e%2e" cannot stand in for "..".
func NormalizeWebhookPath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "", ErrWebhookPathRequired
	}
	if strings.Contains(p, "..") || strings.ContainsAny(p, "?#\\%") || strings.Contains(p, "://") {
		return "", ErrInvalidWebhookPath
	}
	return p, nil
}
