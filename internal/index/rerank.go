package index

import (
	"html"
	"strings"
	"unicode"
)

const (
	lexicalLengthScale = float32(10.0)
	maxLexicalScore    = float32(0.4)
	linkMatchBonus     = float32(0.1)
)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
	"http": {}, "https": {}, "www": {}, "com": {},
}

// lexicalScore computes a lightweight lexical relevance score for a chunk relative to a query.
// Query terms found in the chunk's link earn a bonus per term.
// The score is normalized to remain in a predictable range so it can be blended with vector scores.
func lexicalScore(query, chunkText, link string) float32 {
	queryTokens := filterStopwords(tokenize(query))
	if len(queryTokens) == 0 {
		return 0
	}

	chunkTokens := tokenize(chunkText)
	if len(chunkTokens) == 0 {
		return 0
	}

	chunkFreq := make(map[string]int, len(chunkTokens))
	for _, token := range chunkTokens {
		chunkFreq[token]++
	}

	var rawMatches int
	for _, token := range queryTokens {
		rawMatches += chunkFreq[token]
	}

	score := (float32(rawMatches) / (1 + float32(len(chunkTokens)))) * lexicalLengthScale

	if link != "" {
		linkSet := tokenSet(tokenize(link))
		var linkMatches int
		for _, token := range queryTokens {
			if _, ok := linkSet[token]; ok {
				linkMatches++
			}
		}
		score += float32(linkMatches) * linkMatchBonus
	}

	if score > maxLexicalScore {
		return maxLexicalScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// highlight escapes text and wraps runs of words matching query terms in
// <b> tags. Whitespace is collapsed to single spaces.
func highlight(text, query string) string {
	terms := tokenSet(filterStopwords(tokenize(query)))
	words := strings.Fields(text)

	var b strings.Builder
	open := false
	for i, word := range words {
		matched := false
		for _, token := range tokenize(word) {
			if _, ok := terms[token]; ok {
				matched = true
				break
			}
		}

		switch {
		case matched && !open:
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("<b>")
			open = true
		case !matched && open:
			b.WriteString("</b> ")
			open = false
		case i > 0:
			b.WriteByte(' ')
		}
		b.WriteString(html.EscapeString(word))
	}
	if open {
		b.WriteString("</b>")
	}
	return b.String()
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func filterStopwords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := lexicalStopwords[token]; isStop {
			continue
		}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
