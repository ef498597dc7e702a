package utils

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityRatio returns the Ratcliff/Obershelp ratio 2*M/T of a and b,
// compared rune by rune. The longest-block search breaks ties by position,
// which can differ with argument order, so the larger of both directions is
// reported and the result is symmetric.
func SimilarityRatio(a, b string) float64 {
	left := splitRunes(a)
	right := splitRunes(b)
	forward := difflib.NewMatcherWithJunk(left, right, false, nil).Ratio()
	backward := difflib.NewMatcherWithJunk(right, left, false, nil).Ratio()
	if backward > forward {
		return backward
	}
	return forward
}

// ComparisonString lower-cases content and appends each attachment filename,
// space separated, in attachment order.
func ComparisonString(content string, attachments []string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToLower(content))
	for _, name := range attachments {
		builder.WriteByte(' ')
		builder.WriteString(strings.ToLower(name))
	}
	return builder.String()
}

func splitRunes(value string) []string {
	out := make([]string, 0, len(value))
	for _, r := range value {
		out = append(out, string(r))
	}
	return out
}
