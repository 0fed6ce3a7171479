package dump

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"penprint/internal/services/extract/domain"
)

// epoch accepts the integer, float, and quoted-string encodings that
// created_utc/retrieved_on take across dump vintages
type epoch int64

// UnmarshalJSON implements json.Unmarshaler
func (e *epoch) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*e = 0
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*e = epoch(i)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*e = epoch(int64(f))
		return nil
	}
	return fmt.Errorf("dump: not an epoch: %q", s)
}

// scalar keeps a JSON scalar as its raw text, unquoted.
// The edited field is false for untouched comments and an epoch otherwise;
// downstream wants it verbatim, not coerced
type scalar string

// UnmarshalJSON implements json.Unmarshaler
func (s *scalar) UnmarshalJSON(b []byte) error {
	*s = scalar(strings.Trim(string(b), `"`))
	return nil
}

// comment is the wire shape of one dump line. Only fields the pipeline
// projects or tokenizes are decoded
type comment struct {
	ID          string `json:"id" validate:"required"`
	Subreddit   string `json:"subreddit" validate:"required"`
	SubredditID string `json:"subreddit_id" validate:"required"`
	Author      string `json:"author" validate:"required"`
	CreatedUTC  epoch  `json:"created_utc"`
	RetrievedOn epoch  `json:"retrieved_on"`
	ParentID    string `json:"parent_id"`
	Score       int64  `json:"score"`
	Gilded      int64  `json:"gilded"`
	Edited      scalar `json:"edited"`
	Body        string `json:"body"`
}

// validate is shared; Struct is safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so MissingField errors name the wire field
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check returns the name of the first missing required field, or ""
func (c comment) check() string {
	err := validate.Struct(c)
	if err == nil {
		return ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return "record"
}

func (c comment) toRecord() domain.Record {
	return domain.Record{
		ID:          c.ID,
		Subreddit:   c.Subreddit,
		SubredditID: c.SubredditID,
		Author:      c.Author,
		CreatedUTC:  int64(c.CreatedUTC),
		RetrievedOn: int64(c.RetrievedOn),
		ParentID:    c.ParentID,
		Score:       c.Score,
		Gilded:      c.Gilded,
		Edited:      string(c.Edited),
		Body:        c.Body,
	}
}
