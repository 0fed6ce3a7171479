package dump

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	perr "penprint/internal/platform/errors"
)

const sampleLines = `{"id":"c1","subreddit":"nfl","subreddit_id":"t5_2qmg3","author":"alice","created_utc":1192450635,"retrieved_on":1427426409,"parent_id":"t3_5yba3","score":5,"gilded":0,"edited":false,"body":"Touchdown!"}
{"id":"c2","subreddit":"nba","subreddit_id":"t5_2qo4s","author":"bob","created_utc":"1192450636","retrieved_on":1427426410,"parent_id":"t1_c1","score":-2,"gilded":1,"edited":1381613191,"body":"bad call"}
`

func writePlain(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func writeGzip(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func writeZstd(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReader_Formats(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "plain", path: writePlain(t, "dump.ndjson", sampleLines)},
		{name: "gzip", path: writeGzip(t, "dump.json.gz", sampleLines)},
		{name: "zstd", path: writeZstd(t, "dump.json.zst", sampleLines)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := NewSource(tt.path).Open(context.Background())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer func() { _ = it.Close() }()

			r1, err := it.Next()
			if err != nil {
				t.Fatalf("Next #1: %v", err)
			}
			if r1.ID != "c1" || r1.Author != "alice" || r1.Subreddit != "nfl" {
				t.Fatalf("record 1 mismatch: %+v", r1)
			}
			if r1.CreatedUTC != 1192450635 || r1.Score != 5 || r1.Edited != "false" {
				t.Fatalf("record 1 fields mismatch: %+v", r1)
			}

			r2, err := it.Next()
			if err != nil {
				t.Fatalf("Next #2: %v", err)
			}
			// created_utc arrives quoted in older dumps
			if r2.CreatedUTC != 1192450636 || r2.Edited != "1381613191" || r2.Score != -2 {
				t.Fatalf("record 2 fields mismatch: %+v", r2)
			}

			if _, err := it.Next(); err != io.EOF {
				t.Fatalf("want io.EOF at end, got %v", err)
			}
			// EOF is sticky
			if _, err := it.Next(); err != io.EOF {
				t.Fatalf("EOF should be sticky, got %v", err)
			}
		})
	}
}

func TestReader_EpochAndEditedEncodings(t *testing.T) {
	// floats and quoted strings both appear for the epoch fields across dump
	// vintages; edited flips between bool and epoch
	content := `{"id":"c1","subreddit":"nfl","subreddit_id":"t5_1","author":"alice","created_utc":1.192450635e9,"retrieved_on":"1427426409","edited":1381613191,"body":"x"}` + "\n"
	it, err := NewSource(writePlain(t, "d.ndjson", content)).Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = it.Close() }()

	r, err := it.Next()
	if err != nil {
		t.Fatal(err)
	}
	if r.CreatedUTC != 1192450635 {
		t.Fatalf("float created_utc = %d, want 1192450635", r.CreatedUTC)
	}
	if r.RetrievedOn != 1427426409 {
		t.Fatalf("quoted retrieved_on = %d, want 1427426409", r.RetrievedOn)
	}
	if r.Edited != "1381613191" {
		t.Fatalf("numeric edited = %q, want unquoted passthrough", r.Edited)
	}
}

func TestReader_MalformedLineIsRecoverable(t *testing.T) {
	content := `{"id":"c1","subreddit":"nfl","subreddit_id":"t5_1","author":"alice","body":"hi"}
this is not json
{"id":"c3","subreddit":"nfl","subreddit_id":"t5_1","author":"carol","body":"later"}
`
	it, err := NewSource(writePlain(t, "d.ndjson", content)).Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = it.Close() }()

	if _, err := it.Next(); err != nil {
		t.Fatalf("line 1: %v", err)
	}
	_, err = it.Next()
	if !perr.IsCode(err, perr.ErrorCodeParse) {
		t.Fatalf("line 2 should be a Parse error, got %v", err)
	}
	r, err := it.Next()
	if err != nil || r.ID != "c3" {
		t.Fatalf("reader should survive a bad line; got %+v, %v", r, err)
	}
}

func TestReader_MissingRequiredField(t *testing.T) {
	content := `{"id":"c1","subreddit":"nfl","subreddit_id":"t5_1","body":"no author here"}` + "\n"
	it, err := NewSource(writePlain(t, "d.ndjson", content)).Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = it.Close() }()

	_, err = it.Next()
	if !perr.IsCode(err, perr.ErrorCodeMissingField) {
		t.Fatalf("want MissingField, got %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "author" {
		t.Fatalf("want field author, got %+v", e)
	}
}

func TestSource_OpenFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewSource(filepath.Join(t.TempDir(), "nope.gz")).Open(context.Background())
		if !perr.IsCode(err, perr.ErrorCodeDecode) {
			t.Fatalf("want Decode error, got %v", err)
		}
	})
	t.Run("corrupt gzip", func(t *testing.T) {
		p := writePlain(t, "fake.gz", "definitely not gzip bytes")
		_, err := NewSource(p).Open(context.Background())
		if !perr.IsCode(err, perr.ErrorCodeDecode) {
			t.Fatalf("want Decode error, got %v", err)
		}
	})
}

func TestSource_IndependentPasses(t *testing.T) {
	src := NewSource(writeGzip(t, "d.json.gz", sampleLines))

	a, err := src.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := src.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()
	defer func() { _ = b.Close() }()

	ra, err := a.Next()
	if err != nil {
		t.Fatal(err)
	}
	rb, err := b.Next()
	if err != nil {
		t.Fatal(err)
	}
	if ra.ID != rb.ID {
		t.Fatalf("passes should be independent and identical: %q vs %q", ra.ID, rb.ID)
	}
}
