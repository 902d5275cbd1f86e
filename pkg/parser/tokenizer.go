package parser

import (
	"sort"
	"strings"
)

// extractAll runs one extractor repeatedly over text, replacing every match
// with a constant placeholder token. Identical literals reuse the same
// placeholder through the reverse lookup table.
func (st *parseState) extractAll(text string, ex Extractor) string {
	for {
		start, end, value, ok := ex.Extract(text)
		if !ok {
			return text
		}
		original := text[start:end]
		token, seen := st.reverse[original]
		if !seen {
			token = st.newToken("c")
			st.constants[token] = constantNode(value, original)
			st.reverse[original] = token
		}
		text = text[:start] + token + text[end:]
	}
}

// tokenize runs the extraction pipeline. String extraction (level 1) runs
// before whitespace normalization so that literal content, separators
// included, is hidden behind placeholders before any structural processing
// sees it; all remaining levels run on the normalized text.
func (st *parseState) tokenize(text string) string {
	extractors := make([]LeveledExtractor, len(st.cfg.Extractors))
	copy(extractors, st.cfg.Extractors)
	sort.SliceStable(extractors, func(i, j int) bool {
		return extractors[i].Level < extractors[j].Level
	})

	i := 0
	for ; i < len(extractors) && extractors[i].Level <= LevelStrings; i++ {
		text = st.extractAll(text, extractors[i].Extractor)
	}

	text = stripWhitespace(text)

	for ; i < len(extractors); i++ {
		text = st.extractAll(text, extractors[i].Extractor)
	}
	return text
}

// stripWhitespace removes every whitespace character. String literals have
// already been replaced with placeholders, so only structural whitespace
// remains.
func stripWhitespace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}
