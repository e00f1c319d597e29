// Package results owns the in-memory result set for the current search and
// the per-post enrichment bookkeeping.
//
// A Set is owned by the UI event loop: all mutation happens from one control
// flow, so no locking is needed. Summarize requests for distinct posts may be
// outstanding simultaneously; the flight table guarantees at most one
// concurrent request per post and makes late responses for discarded posts
// harmless.
package results

import "github.com/mwhitford/redlens/internal/model"

// Set holds the posts of the current search plus the enrichment flight table.
// The zero value is an empty set, ready to use.
type Set struct {
	posts    []model.Post
	index    map[string]int // post ID -> position in posts
	inFlight map[string]bool
}

// Replace swaps the entire result set and clears the flight table. A new
// search invalidates all in-flight bookkeeping; responses already issued for
// the previous set resolve as no-ops because their IDs no longer exist here.
func (s *Set) Replace(posts []model.Post) {
	s.posts = posts
	s.index = make(map[string]int, len(posts))
	for i, p := range posts {
		s.index[p.ID] = i
	}
	s.inFlight = make(map[string]bool)
}

// Clear empties the set. Equivalent to Replace(nil).
func (s *Set) Clear() {
	s.Replace(nil)
}

// Posts returns the current result set in search order.
func (s *Set) Posts() []model.Post {
	return s.posts
}

// Len returns the number of posts in the set.
func (s *Set) Len() int {
	return len(s.posts)
}

// Begin records that an enrichment request is starting for the given post.
// It returns false, and the caller must not issue a request, when the post is
// unknown or a request for it is already in flight.
func (s *Set) Begin(id string) bool {
	if _, ok := s.lookup(id); !ok {
		return false
	}
	if s.inFlight[id] {
		return false
	}
	if s.inFlight == nil {
		s.inFlight = make(map[string]bool)
	}
	s.inFlight[id] = true
	return true
}

// Complete patches the summary of the post with the given ID and clears its
// flight entry. A stale ID (the post was replaced by a newer search) is a
// no-op apart from the flight entry removal.
func (s *Set) Complete(id, summary string) {
	delete(s.inFlight, id)
	if i, ok := s.lookup(id); ok {
		s.posts[i].Summary = summary
	}
}

// Fail clears the flight entry for the given ID without touching the post,
// reverting it to unenriched so the user can retry.
func (s *Set) Fail(id string) {
	delete(s.inFlight, id)
}

// InFlight reports whether an enrichment request is outstanding for the post.
func (s *Set) InFlight(id string) bool {
	return s.inFlight[id]
}

// InFlightCount returns the number of outstanding enrichment requests.
func (s *Set) InFlightCount() int {
	return len(s.inFlight)
}

func (s *Set) lookup(id string) (int, bool) {
	if s.index == nil {
		return 0, false
	}
	i, ok := s.index[id]
	return i, ok
}
