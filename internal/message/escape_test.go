package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape_EveryReservedCharacter(t *testing.T) {
	for _, r := range escapeSet {
		escaped := Escape(string(r))
		assert.Equal(t, `\`+string(r), escaped, "character %q", r)
	}
}

func TestEscape_MixedText(t *testing.T) {
	assert.Equal(t, `a\.b\*c`, Escape("a.b*c"))
	assert.Equal(t, `hello world`, Escape("hello world"))
	assert.Equal(t, `\#tag\!`, Escape("#tag!"))
}

func TestEscape_SingleMarkerPerCharacter(t *testing.T) {
	input := "_*[]()~`>#+-=|{}.!"
	escaped := Escape(input)

	// every reserved character gets exactly one backslash
	assert.Equal(t, len(input), strings.Count(escaped, `\`))
	for i, r := range escaped {
		if r == '\\' {
			continue
		}
		assert.Greater(t, i, 0)
		assert.Equal(t, byte('\\'), escaped[i-1], "character %q at %d", r, i)
	}
}

func TestEscape_LeavesUnicodeAlone(t *testing.T) {
	assert.Equal(t, "拍摄时间", Escape("拍摄时间"))
}
