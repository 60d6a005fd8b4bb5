package message

import "strings"

// escapeSet is the MarkdownV2 reserved set, per
// https://core.telegram.org/bots/api#markdownv2-style
const escapeSet = "_*[]()~`>#+-=|{}.!"

// Escape prefixes every MarkdownV2 reserved character with a single
// backslash so user-supplied text renders literally.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 && strings.ContainsRune(escapeSet, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
