// Package model defines the data types exchanged with the redlens backend.
package model

import "time"

// Post is one Reddit post as returned by the backend search endpoint.
// SentimentScore is nil when the backend could not score the post; Summary is
// empty until enrichment fills it in.
type Post struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Subreddit      string   `json:"subreddit"`
	Upvotes        int      `json:"upvotes"`
	Comments       int      `json:"comments"`
	URL            string   `json:"url"`
	Permalink      string   `json:"permalink"`
	Body           string   `json:"body"`
	CreatedUTC     float64  `json:"created_utc"`
	SentimentScore *float64 `json:"sentiment_score"`
	Summary        string   `json:"summary,omitempty"`
}

// Created converts the backend's epoch-seconds timestamp to local time.
func (p Post) Created() time.Time {
	sec := int64(p.CreatedUTC)
	nsec := int64((p.CreatedUTC - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).Local()
}

// SavedKeyword is a stored keyword/subreddit pair.
type SavedKeyword struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Subreddit string    `json:"subreddit"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchRecord is one entry of the user's search history.
type SearchRecord struct {
	Keyword      string   `json:"keyword"`
	Subreddit    string   `json:"subreddit"`
	PostCount    int      `json:"post_count"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	Timestamp    string   `json:"timestamp"`
}
