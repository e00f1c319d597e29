// Package analytics holds the aggregate payload behind the dashboard tab.
// The backend does the aggregation; this package is a read-only shape for it
// plus the fallback the view renders when the fetch fails.
package analytics

// Dashboard mirrors GET /api/dashboard.
type Dashboard struct {
	RecentSearches  []RecentSearch `json:"recent_searches"`
	SentimentTrends []Trend        `json:"sentiment_trends"`
	KeywordStats    []KeywordStat  `json:"keyword_stats"`
	SummaryStats    Summary        `json:"summary_stats"`
}

// RecentSearch is one recently executed search.
type RecentSearch struct {
	Keyword      string   `json:"keyword"`
	Subreddit    string   `json:"subreddit"`
	PostCount    int      `json:"post_count"`
	AvgSentiment *float64 `json:"avg_sentiment,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// Trend is the average sentiment over one period. The grouping key comes
// back under "_id" from the backend's aggregation pipeline.
type Trend struct {
	Period       string  `json:"_id"`
	PostCount    int     `json:"post_count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// KeywordStat aggregates all searches for one keyword.
type KeywordStat struct {
	Keyword      string   `json:"_id"`
	SearchCount  int      `json:"search_count"`
	TotalPosts   int      `json:"total_posts"`
	AvgSentiment *float64 `json:"avg_sentiment,omitempty"`
}

// Summary holds the top-line counters.
type Summary struct {
	TotalSearches int      `json:"total_searches"`
	TotalPosts    int      `json:"total_posts"`
	AvgSentiment  *float64 `json:"avg_sentiment,omitempty"`
}

// Empty returns a renderable zero dashboard: zeroed counters, empty lists.
// Used whenever the fetch fails so the view never sees an undefined state.
func Empty() Dashboard {
	return Dashboard{
		RecentSearches:  []RecentSearch{},
		SentimentTrends: []Trend{},
		KeywordStats:    []KeywordStat{},
	}
}

// Normalize replaces nil slices with empty ones so the view can range over
// them unconditionally.
func (d Dashboard) Normalize() Dashboard {
	if d.RecentSearches == nil {
		d.RecentSearches = []RecentSearch{}
	}
	if d.SentimentTrends == nil {
		d.SentimentTrends = []Trend{}
	}
	if d.KeywordStats == nil {
		d.KeywordStats = []KeywordStat{}
	}
	return d
}

// Sentiment buckets: 7-10 positive, 4-6 neutral, 0-3 negative.

// SentimentLabel returns the display label for a score.
func SentimentLabel(score float64) string {
	switch {
	case score >= 7:
		return "Positive"
	case score >= 4:
		return "Neutral"
	default:
		return "Negative"
	}
}
