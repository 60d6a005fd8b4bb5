package message

import (
	"strings"
	"unicode/utf8"
)

// RenderPlainText interprets the MarkdownV2 subset the caption formatter
// emits and returns the text a reader actually sees: an escape becomes its
// literal character, style markers are invisible, and a link contributes
// only its anchor text. Telegram's caption limit applies to this rendered
// text, not to the markup source.
func RenderPlainText(markup string) string {
	var b strings.Builder
	rs := []rune(markup)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 < len(rs) {
				i++
				b.WriteRune(rs[i])
			}
		case '*', '_', '~', '`':
			// style markers
		case '[':
			// anchor text follows and renders normally
		case ']':
			if i+1 < len(rs) && rs[i+1] == '(' {
				// the (url) part of a link is not displayed
				j := i + 1
				for j < len(rs) && rs[j] != ')' {
					j++
				}
				i = j
			}
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String()
}

// RenderedLength is the rendered plain-text length of markup, in runes.
func RenderedLength(markup string) int {
	return utf8.RuneCountInString(RenderPlainText(markup))
}

// cutPoints returns the rune offsets at which a prefix of markup is still
// well-formed MarkdownV2: never between an escape backslash and its
// character, never inside an [anchor](url) construct, and never with a style
// marker left open.
func cutPoints(rs []rune) []int {
	points := []int{0}
	inLink := false
	var bold, italic, strike, code bool
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 < len(rs) {
				i++
			}
		case '*':
			bold = !bold
		case '_':
			italic = !italic
		case '~':
			strike = !strike
		case '`':
			code = !code
		case '[':
			inLink = true
		case ')':
			inLink = false
		}
		if !inLink && !bold && !italic && !strike && !code {
			points = append(points, i+1)
		}
	}
	return points
}

// TruncateToFit shortens markup so that its rendered length, plus the
// rendered length of marker when anything was cut, fits within budget.
// Rendered length is monotonic non-decreasing over the well-formed cut
// points (cutting earlier never renders longer), so a binary search over
// them finds the longest fitting prefix; every candidate is re-rendered and
// measured, never estimated.
func TruncateToFit(markup string, budget int, marker string) string {
	if RenderedLength(markup) <= budget {
		return markup
	}
	markerLen := RenderedLength(marker)
	if budget < markerLen {
		return ""
	}
	rs := []rune(markup)
	points := cutPoints(rs)

	// largest cut point whose rendered prefix still leaves room for marker
	lo, hi := 0, len(points)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if RenderedLength(string(rs[:points[mid]]))+markerLen <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(rs[:points[lo]]) + marker
}
