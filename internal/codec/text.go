package codec

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf16"
)

// UntitledLine is shown for entries whose first line is blank.
const UntitledLine = "(untitled)"

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// WordCount counts words in mixed CJK/Latin text: every CJK ideograph counts
// as one, every run of [A-Za-z0-9_] counts as one, and every remaining
// non-space character counts once per UTF-16 code unit.
func WordCount(s string) int {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	count := 0
	inWord := false
	for _, r := range t {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case isWordRune(r):
			if !inWord {
				count++
				inWord = true
			}
		case isSpace(r):
			inWord = false
		default:
			count += utf16.RuneLen(r)
			inWord = false
		}
	}
	return count
}

// FirstLine returns the first non-empty-trimmed line of s, or UntitledLine.
func FirstLine(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return UntitledLine
	}
	line, _, _ := strings.Cut(t, "\n")
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if line == "" {
		return UntitledLine
	}
	return line
}

// Clamp truncates s to at most n runes, appending an ellipsis when cut.
func Clamp(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// TextBytes estimates the in-memory footprint of s as two bytes per UTF-16 code unit.
func TextBytes(s string) int {
	return UTF16Len(s) * 2
}

// EstimateBytes serializes v to JSON and returns its UTF-16 footprint.
// It returns 0 when v cannot be serialized.
func EstimateBytes(v any) int {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return 0
	}
	return TextBytes(strings.TrimSuffix(sb.String(), "\n"))
}
