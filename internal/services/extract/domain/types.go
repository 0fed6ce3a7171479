// Package domain defines core types and interfaces for the extract pipeline
package domain

// DeletedAuthor is the sentinel Reddit stores for comments whose account was removed
const DeletedAuthor = "[deleted]"

// Record is one decoded comment, read once per pass and discarded
type Record struct {
	ID          string
	Subreddit   string
	SubredditID string
	Author      string
	CreatedUTC  int64
	RetrievedOn int64
	ParentID    string
	Score       int64
	Gilded      int64
	Edited      string // raw scalar: "false" or an epoch; passed through unmodified
	Body        string
}

// MetaRow is the fixed metadata projection of an accepted record
type MetaRow struct {
	ID          string
	SubredditID string
	Subreddit   string
	Author      string
	CreatedUTC  int64
	RetrievedOn int64
	ParentID    string
	Score       int64
	Gilded      int64
	Edited      string
}

// MetaColumns is the metadata table header, in output order
func MetaColumns() []string {
	return []string{
		"id", "subreddit_id", "subreddit", "author",
		"created_utc", "retrieved_on", "parent_id",
		"score", "gilded", "edited",
	}
}

// FeatureRow maps schema column names to values for one accepted record.
// Columns absent from the map are written as 0 by the sink
type FeatureRow map[string]float64

// Stats summarizes one run
type Stats struct {
	Lines     int64 // lines read from the source
	Malformed int64 // lines that failed decode or validation and were skipped
	Filtered  int64 // well-formed records rejected by the filter
	Accepted  int64 // rows written to both tables
}
