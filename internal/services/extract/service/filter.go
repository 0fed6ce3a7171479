package service

import (
	"strings"

	"penprint/internal/services/extract/domain"
)

// allowSet builds the case-insensitive forum allowlist; empty means allow all
func allowSet(forums []string) map[string]struct{} {
	if len(forums) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(forums))
	for _, f := range forums {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}

// accept applies the record filter: forum allowlist match and a live author.
// Both tables see exactly the records this admits
func (s *Service) accept(rec domain.Record) bool {
	if rec.Author == "" || rec.Author == domain.DeletedAuthor {
		return false
	}
	if s.allow == nil {
		return true
	}
	_, ok := s.allow[strings.ToLower(rec.Subreddit)]
	return ok
}

// ProjectMeta maps an accepted record onto the fixed metadata row
func ProjectMeta(rec domain.Record) domain.MetaRow {
	return domain.MetaRow{
		ID:          rec.ID,
		SubredditID: rec.SubredditID,
		Subreddit:   rec.Subreddit,
		Author:      rec.Author,
		CreatedUTC:  rec.CreatedUTC,
		RetrievedOn: rec.RetrievedOn,
		ParentID:    rec.ParentID,
		Score:       rec.Score,
		Gilded:      rec.Gilded,
		Edited:      rec.Edited,
	}
}
