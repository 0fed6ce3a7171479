// Package features derives the per-comment stylometric feature bundle:
// lengths, a word-length histogram, case-shape counts, vocabulary-richness
// (legomena) buckets, Yule's K, and character / function-word frequencies
package features

import (
	"unicode"
	"unicode/utf8"

	"penprint/internal/core/funcwords"
	"penprint/internal/core/tokenize"
)

const (
	// histogram buckets: word_1..word_19 plus word_20p for lengths >= 20
	wordLenBuckets = 20

	// legomena buckets: lego_1..lego_9 plus lego_10p for frequencies >= 10
	legoBuckets = 10
)

// Bundle is the explicit feature record for one comment. Named fields carry
// the fixed features; the two maps carry the dynamic columns, keyed the way
// the schema spells them
type Bundle struct {
	LengthChar  int
	LengthWords int

	// WordLen[0] is word_1 ... WordLen[18] is word_19, WordLen[19] is word_20p
	WordLen [wordLenBuckets]int

	AllUpper   int
	AllLower   int
	FirstUpper int
	Camel      int
	OtherCase  int

	// Lego[0] is lego_1 ... Lego[8] is lego_9, Lego[9] is lego_10p
	Lego [legoBuckets]int

	YulesK float64

	Chars     map[rune]int
	FuncWords map[string]int
}

// Computer derives bundles against one frozen function-word set
type Computer struct {
	funcSet map[string]struct{}
}

// NewComputer builds a Computer over the given function words (already
// lower-cased by the funcwords loader)
func NewComputer(words []string) *Computer {
	return &Computer{funcSet: funcwords.Set(words)}
}

// Compute derives the full bundle from the raw body and its token views.
// length_char and the character counts read body as given; callers tokenize
// off a normalized copy so whitespace collapse and width folding never leak
// into the character features. An empty body is not an error: every count is
// zero and K is 0
func (c *Computer) Compute(body string, orig, lower []string) Bundle {
	b := Bundle{
		LengthChar:  utf8.RuneCountInString(body),
		LengthWords: len(orig),
		Chars:       tokenize.CharCounts(body),
		FuncWords:   map[string]int{},
	}

	for _, w := range orig {
		n := utf8.RuneCountInString(w)
		if n > wordLenBuckets {
			n = wordLenBuckets
		}
		b.WordLen[n-1]++

		switch caseShape(w) {
		case shapeAllUpper:
			b.AllUpper++
		case shapeCamel:
			b.Camel++
		case shapeFirstUpper:
			b.FirstUpper++
		case shapeAllLower:
			b.AllLower++
		default:
			b.OtherCase++
		}
	}

	freq := map[string]int{}
	for _, w := range lower {
		freq[w]++
		if _, ok := c.funcSet[w]; ok {
			b.FuncWords[w]++
		}
	}

	// V(m) over every observed frequency m; the folded legomena buckets are a
	// display aggregation, Yule's K uses the unfolded distribution
	vm := map[int]int{}
	for _, m := range freq {
		vm[m]++
		if m > legoBuckets {
			m = legoBuckets
		}
		b.Lego[m-1]++
	}
	b.YulesK = yulesK(b.LengthWords, vm)

	return b
}

// yulesK computes K = 1e4 * (-1/N + sum over m of V(m) * (m/N)^2), 0 when N = 0
func yulesK(n int, vm map[int]int) float64 {
	if n == 0 {
		return 0
	}
	fn := float64(n)
	sum := -1.0 / fn
	for m, v := range vm {
		r := float64(m) / fn
		sum += float64(v) * r * r
	}
	return 1e4 * sum
}

type shape int

const (
	shapeOther shape = iota
	shapeAllUpper
	shapeCamel
	shapeFirstUpper
	shapeAllLower
)

// caseShape classifies one token into exactly one category. Priority:
// ALL_UPPER > CAMEL > FIRST_UPPER > ALL_LOWER > OTHER, so degenerate tokens
// like a single capital land in ALL_UPPER. Tokens without any letter
// (digit runs) are OTHER: the letter predicates would all hold vacuously
func caseShape(tok string) shape {
	var (
		hasLetter  bool
		hasLower   bool
		hasUpper   bool
		innerUpper bool // an uppercase letter after the first rune
		firstUpper bool
		idx        int
	)
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
				if idx == 0 {
					firstUpper = true
				} else {
					innerUpper = true
				}
			case unicode.IsLower(r):
				hasLower = true
			}
		}
		idx++
	}

	switch {
	case !hasLetter:
		return shapeOther
	case hasUpper && !hasLower:
		return shapeAllUpper
	case innerUpper:
		return shapeCamel
	case firstUpper && !innerUpper:
		return shapeFirstUpper
	case hasLower && !hasUpper:
		return shapeAllLower
	default:
		return shapeOther
	}
}
