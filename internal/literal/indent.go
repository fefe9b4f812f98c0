package literal

import "strings"

// trimIndent measures a line's leading whitespace in columns, expanding tabs
// to stops of 4, returning the width and the remaining text.
func trimIndent(line string) (n int, tail string) {
	for tail = line; len(tail) > 0; tail = tail[1:] {
		switch tail[0] {
		case ' ':
			n++
		case '\t':
			n += 4 - n%4
		default:
			return n, tail
		}
	}
	return n, tail
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

// lineRange maps a span of paragraph-relative line offsets onto the source
// lines of the paragraph, if known.
func lineRange(para lineSpan, start, end int) lineSpan {
	if !para.Valid() {
		return lineSpan{}
	}
	return lineSpan{Start: para.Start + start, End: para.Start + end}
}
