package insights

import "strings"

// stopwords are skipped when tokenizing queries and documents; they carry no
// signal for overlap scoring.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "how": {}, "in": {}, "is": {}, "it": {}, "my": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "what": {}, "which": {},
	"who": {}, "with": {},
}

// tokenize lowercases the text and splits it on anything that is not a letter
// or digit, dropping stopwords and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isLetter := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		return !isLetter && !isDigit
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}

// tokenSet builds a membership set from document text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// overlapScore is the fraction of query tokens present in the document.
func overlapScore(queryTokens []string, doc map[string]struct{}) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	matched := 0
	for _, tok := range queryTokens {
		if _, ok := doc[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}
