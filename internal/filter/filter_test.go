package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mwhitford/redlens/internal/model"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func testPosts() []model.Post {
	return []model.Post{
		{
			ID:             "1",
			Title:          "First",
			Subreddit:      "tech",
			Upvotes:        10,
			Comments:       2,
			SentimentScore: floatPtr(8.0),
			CreatedUTC:     float64(time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local).Unix()),
		},
		{
			ID:             "2",
			Title:          "Second",
			Subreddit:      "news",
			Upvotes:        1,
			Comments:       20,
			SentimentScore: floatPtr(3.0),
			CreatedUTC:     float64(time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local).Unix()),
		},
		{
			ID:         "3",
			Title:      "Third",
			Subreddit:  "TechSupport",
			Upvotes:    5,
			Comments:   5,
			CreatedUTC: float64(time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local).Unix()),
		},
	}
}

func visibleIDs(posts []model.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []string
	}{
		{
			name:     "no constraints returns all in original order",
			criteria: Criteria{},
			wantIDs:  []string{"1", "2", "3"},
		},
		{
			name:     "min upvotes",
			criteria: Criteria{MinUpvotes: intPtr(5)},
			wantIDs:  []string{"1", "3"},
		},
		{
			name:     "min upvotes excludes below threshold",
			criteria: Criteria{MinUpvotes: intPtr(6)},
			wantIDs:  []string{"1"},
		},
		{
			name:     "max upvotes inclusive",
			criteria: Criteria{MaxUpvotes: intPtr(5)},
			wantIDs:  []string{"2", "3"},
		},
		{
			name:     "min and max comments",
			criteria: Criteria{MinComments: intPtr(2), MaxComments: intPtr(5)},
			wantIDs:  []string{"1", "3"},
		},
		{
			name:     "min sentiment excludes low and absent scores",
			criteria: Criteria{MinSentiment: floatPtr(5)},
			wantIDs:  []string{"1"},
		},
		{
			name:     "max sentiment excludes absent scores",
			criteria: Criteria{MaxSentiment: floatPtr(9)},
			wantIDs:  []string{"1", "2"},
		},
		{
			name:     "subreddit substring is case-insensitive",
			criteria: Criteria{Subreddit: "tech"},
			wantIDs:  []string{"1", "3"},
		},
		{
			name:     "subreddit with no match",
			criteria: Criteria{Subreddit: "sports"},
			wantIDs:  []string{},
		},
		{
			name: "start date inclusive",
			criteria: Criteria{
				StartDate: datePtr(2025, 6, 15),
			},
			wantIDs: []string{"2", "3"},
		},
		{
			name: "end date inclusive of the whole day",
			criteria: Criteria{
				EndDate: datePtr(2025, 6, 15),
			},
			wantIDs: []string{"1", "3"},
		},
		{
			name: "date range",
			criteria: Criteria{
				StartDate: datePtr(2025, 6, 11),
				EndDate:   datePtr(2025, 6, 19),
			},
			wantIDs: []string{"3"},
		},
		{
			name: "all dimensions combined with AND semantics",
			criteria: Criteria{
				MinUpvotes:   intPtr(2),
				Subreddit:    "tech",
				MinSentiment: floatPtr(1),
			},
			wantIDs: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(testPosts(), tt.criteria)
			if diff := cmp.Diff(tt.wantIDs, visibleIDs(got)); diff != "" {
				t.Errorf("visible posts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyIsPure(t *testing.T) {
	posts := testPosts()
	c := Criteria{MinUpvotes: intPtr(5), Subreddit: "tech"}

	first := Apply(posts, c)
	second := Apply(posts, c)

	if diff := cmp.Diff(visibleIDs(first), visibleIDs(second)); diff != "" {
		t.Errorf("repeated application diverged (-first +second):\n%s", diff)
	}

	// The input slice must be untouched.
	if diff := cmp.Diff(visibleIDs(testPosts()), visibleIDs(posts)); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestApplyEmpty(t *testing.T) {
	got := Apply(nil, Criteria{MinUpvotes: intPtr(1)})
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 posts, got %d", len(got))
	}
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Criteria
	}{
		{
			name: "empty input has no constraints",
			in:   Input{},
			want: Criteria{},
		},
		{
			name: "numeric bounds",
			in:   Input{MinUpvotes: "5", MaxComments: "100", MinSentiment: "4.5"},
			want: Criteria{MinUpvotes: intPtr(5), MaxComments: intPtr(100), MinSentiment: floatPtr(4.5)},
		},
		{
			name: "malformed bounds are treated as unset",
			in:   Input{MinUpvotes: "abc", MaxSentiment: "high", StartDate: "junk"},
			want: Criteria{},
		},
		{
			name: "whitespace is trimmed",
			in:   Input{MinUpvotes: " 3 ", Subreddit: " golang "},
			want: Criteria{MinUpvotes: intPtr(3), Subreddit: "golang"},
		},
		{
			name: "dates parse in local zone",
			in:   Input{StartDate: "2025-06-01", EndDate: "2025-06-30"},
			want: Criteria{StartDate: datePtr(2025, 6, 1), EndDate: datePtr(2025, 6, 30)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCriteria(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("criteria mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCriteriaIsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Error("empty criteria should be zero")
	}
	if (Criteria{Subreddit: "x"}).IsZero() {
		t.Error("criteria with a subreddit constraint should not be zero")
	}
	if (Criteria{MinSentiment: floatPtr(0)}).IsZero() {
		t.Error("an explicit zero bound is still a constraint")
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return &t
}
