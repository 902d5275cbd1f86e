package parser

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

// Extractor recognizes one class of literal inside raw expression text.
// Extract returns the half-open match range [start, end) and the parsed
// value of the first extractable literal, or ok == false when the text
// contains none. A malformed literal (e.g. an unterminated string) is simply
// not a match; the unconsumed text later fails token resolution, collapsing
// the parse to a failure instead of panicking.
type Extractor interface {
	Extract(text string) (start, end int, value any, ok bool)
}

// PassThroughExtractor may recognize an entire expression as one opaque
// literal before any other processing occurs, short-circuiting the parse.
type PassThroughExtractor interface {
	Evaluate(text string) (value any, ok bool)
}

// LeveledExtractor pairs an extractor with its priority level. Lower levels
// run first: strings at level 1, scientific-notation numbers at level 2,
// byte arrays at level 3. Registered extractors without an explicit level
// get auto-incremented levels after the defaults.
type LeveledExtractor struct {
	Level     int
	Extractor Extractor
}

// DefaultExtractors returns the standard extraction pipeline for def's
// string delimiters.
func DefaultExtractors(stringIndicator, escapeCharacter string) []LeveledExtractor {
	return []LeveledExtractor{
		{Level: LevelStrings, Extractor: &StringExtractor{Indicator: stringIndicator, Escape: escapeCharacter}},
		{Level: LevelScientific, Extractor: &ScientificExtractor{}},
		{Level: LevelBytes, Extractor: &BytesExtractor{}},
	}
}

// Default extractor levels. User extractors start above LevelUser.
const (
	LevelStrings    = 1
	LevelScientific = 2
	LevelBytes      = 3
	LevelUser       = 10
)

// StringExtractor extracts delimited string literals. Escaped delimiters
// inside the literal are unescaped in the extracted value.
type StringExtractor struct {
	Indicator string
	Escape    string
}

// Extract implements Extractor.
func (e *StringExtractor) Extract(text string) (int, int, any, bool) {
	ind := e.Indicator
	if ind == "" {
		ind = `"`
	}
	start := strings.Index(text, ind)
	if start < 0 {
		return 0, 0, nil, false
	}
	pos := start + len(ind)
	var sb strings.Builder
	for pos < len(text) {
		if e.Escape != "" && strings.HasPrefix(text[pos:], e.Escape+ind) {
			sb.WriteString(ind)
			pos += len(e.Escape) + len(ind)
			continue
		}
		if strings.HasPrefix(text[pos:], ind) {
			return start, pos + len(ind), sb.String(), true
		}
		sb.WriteByte(text[pos])
		pos++
	}
	// Unterminated literal: no match at this position.
	return 0, 0, nil, false
}

// scientificPattern matches numbers in scientific notation. Plain numbers
// are resolved as terminals by the generator; only the exponent form needs
// early extraction, because its sign character would otherwise be split as
// an additive operator.
var scientificPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?[eE][+-]?[0-9]+`)

// ScientificExtractor extracts scientific-notation numeric literals.
type ScientificExtractor struct{}

// Extract implements Extractor. Matches adjacent to identifier characters
// are skipped so that names like x1e5 and previously substituted
// placeholder tokens stay intact.
func (e *ScientificExtractor) Extract(text string) (int, int, any, bool) {
	for offset := 0; offset < len(text); {
		loc := scientificPattern.FindStringIndex(text[offset:])
		if loc == nil {
			return 0, 0, nil, false
		}
		start, end := offset+loc[0], offset+loc[1]
		if identAdjacent(text, start, end) {
			offset = start + 1
			continue
		}
		v, err := strconv.ParseFloat(text[start:end], 64)
		if err != nil {
			offset = start + 1
			continue
		}
		return start, end, v, true
	}
	return 0, 0, nil, false
}

// bytesPattern matches hexadecimal byte-array literals: 0x followed by an
// even number of hex digits.
var bytesPattern = regexp.MustCompile(`0[xX](?:[0-9a-fA-F]{2})+`)

// BytesExtractor extracts byte-array literals written in hexadecimal.
type BytesExtractor struct{}

// Extract implements Extractor.
func (e *BytesExtractor) Extract(text string) (int, int, any, bool) {
	for offset := 0; offset < len(text); {
		loc := bytesPattern.FindStringIndex(text[offset:])
		if loc == nil {
			return 0, 0, nil, false
		}
		start, end := offset+loc[0], offset+loc[1]
		if identAdjacent(text, start, end) {
			offset = start + 1
			continue
		}
		v, err := hex.DecodeString(text[start+2 : end])
		if err != nil {
			offset = start + 1
			continue
		}
		return start, end, v, true
	}
	return 0, 0, nil, false
}

// identAdjacent reports whether the match range touches identifier
// characters on either side.
func identAdjacent(text string, start, end int) bool {
	if start > 0 && isIdentChar(text[start-1]) {
		return true
	}
	if end < len(text) && isIdentChar(text[end]) {
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// StringPassThrough recognizes an expression that is, in its entirety, a
// single string literal and wraps it whole.
type StringPassThrough struct {
	Indicator string
	Escape    string
}

// Evaluate implements PassThroughExtractor.
func (p *StringPassThrough) Evaluate(text string) (any, bool) {
	ex := &StringExtractor{Indicator: p.Indicator, Escape: p.Escape}
	start, end, value, ok := ex.Extract(text)
	if !ok || start != 0 || end != len(text) {
		return nil, false
	}
	return value, true
}
