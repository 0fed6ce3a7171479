// Package funcwords loads the function-word lexicon that defines the dynamic
// columns of the feature table. The list is sorted so the schema is
// reproducible across runs
package funcwords

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"
	"strings"

	perr "penprint/internal/platform/errors"
)

// ColumnPrefix keeps function-word columns from colliding with the
// single-character columns
const ColumnPrefix = "fw_"

//go:embed funcwords.txt
var embedded []byte

// Default returns the embedded lexicon, used when no path is given
func Default() []string {
	ws, err := parse(bytes.NewReader(embedded))
	if err != nil {
		// embedded resource is compiled in; a parse failure is a build defect
		panic("funcwords: embedded lexicon unreadable: " + err.Error())
	}
	return ws
}

// Load reads a lexicon file, one word per line. Blank lines and lines
// starting with '#' are skipped. Words are lower-cased, deduplicated, and
// returned sorted
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "funcwords: open %s", path)
	}
	defer func() { _ = f.Close() }()
	ws, err := parse(f)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDecode, "funcwords: read %s", path)
	}
	return ws, nil
}

func parse(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	seen := map[string]struct{}{}
	var out []string
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Set builds a membership set for the feature stage
func Set(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
