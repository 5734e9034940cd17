package dto

import "strconv"

// RedditQuery is the query string of GET /reddit-sentiment.
type RedditQuery struct {
	Stock     string `form:"stock"`
	Subreddit string `form:"subreddit"`
	Static    string `form:"static"`
}

// ForceStatic reports whether static=true was requested.
func (q RedditQuery) ForceStatic() bool {
	return q.Static == "true"
}

// ParseLimit は limit クエリを整数にします。不正値は 0（既定件数）です。
func ParseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
