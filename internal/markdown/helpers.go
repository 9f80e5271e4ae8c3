package markdown

import "strings"

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const mdV2SpecialChars = `._[](){}#|!+-=*~>` + "`"

var mdV2SpecialCharLookup = func() [256]bool {
	var m [256]bool
	for _, c := range []byte(mdV2SpecialChars) {
		m[c] = true
	}
	return m
}()

// EscapeV2 escapes text for Telegram MarkdownV2 parse mode.
func EscapeV2(input string) string {
	charsToEscape := 0
	for i := range input {
		if mdV2SpecialCharLookup[input[i]] {
			charsToEscape++
		}
	}
	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range input {
		c := input[i]
		if mdV2SpecialCharLookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}
