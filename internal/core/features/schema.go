package features

import (
	"fmt"

	"penprint/internal/core/funcwords"
	"penprint/internal/core/tokenize"
)

// fixedColumns is the head of the feature schema, in frozen order
func fixedColumns() []string {
	cols := []string{"length_char", "length_words"}
	for i := 1; i < wordLenBuckets; i++ {
		cols = append(cols, fmt.Sprintf("word_%d", i))
	}
	cols = append(cols, "word_20p")
	cols = append(cols, "all_upper", "all_lower", "first_upper", "camel", "other_case")
	for i := 1; i < legoBuckets; i++ {
		cols = append(cols, fmt.Sprintf("lego_%d", i))
	}
	cols = append(cols, "lego_10p", "yules_k")
	return cols
}

// Schema returns the frozen feature-table column list: fixed features, one
// prefixed column per function word (sorted by the funcwords loader), the 26
// lowercase letters, 10 digits, and the fixed punctuation set. Identical
// across runs given the same function-word resource
func Schema(words []string) []string {
	cols := fixedColumns()
	for _, w := range words {
		cols = append(cols, funcwords.ColumnPrefix+w)
	}
	for r := 'a'; r <= 'z'; r++ {
		cols = append(cols, string(r))
	}
	for r := '0'; r <= '9'; r++ {
		cols = append(cols, string(r))
	}
	for _, r := range tokenize.Punctuation {
		cols = append(cols, string(r))
	}
	return cols
}

// Values flattens the bundle into schema-keyed values. Only populated
// columns appear; the sink defaults the rest to 0
func (b Bundle) Values() map[string]float64 {
	vals := map[string]float64{
		"length_char":  float64(b.LengthChar),
		"length_words": float64(b.LengthWords),
		"all_upper":    float64(b.AllUpper),
		"all_lower":    float64(b.AllLower),
		"first_upper":  float64(b.FirstUpper),
		"camel":        float64(b.Camel),
		"other_case":   float64(b.OtherCase),
		"yules_k":      b.YulesK,
	}
	for i, n := range b.WordLen {
		if n == 0 {
			continue
		}
		if i == wordLenBuckets-1 {
			vals["word_20p"] = float64(n)
		} else {
			vals[fmt.Sprintf("word_%d", i+1)] = float64(n)
		}
	}
	for i, n := range b.Lego {
		if n == 0 {
			continue
		}
		if i == legoBuckets-1 {
			vals["lego_10p"] = float64(n)
		} else {
			vals[fmt.Sprintf("lego_%d", i+1)] = float64(n)
		}
	}
	for r, n := range b.Chars {
		vals[string(r)] = float64(n)
	}
	for w, n := range b.FuncWords {
		vals[funcwords.ColumnPrefix+w] = float64(n)
	}
	return vals
}
