package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlainText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"plain", "hello", "hello"},
		{"bold markers invisible", "*bold*", "bold"},
		{"italic markers invisible", "_italic_", "italic"},
		{"code markers invisible", "`code`", "code"},
		{"escape renders literal", `a\.b`, "a.b"},
		{"escaped backslash pair", `\\`, `\`},
		{"link shows anchor only", "[anchor](https://example.com/page)", "anchor"},
		{"escaped anchor", `[\#tag](https://www.flickr.com/photos/tags/tag)`, "#tag"},
		{"label row", `*光圈* \| f/2\.8` + "\n", "光圈 | f/2.8\n"},
		{"reference link row", `*曝光程序* [\(?\)](https://example.com/ep.html) \| Manual`, "曝光程序 (?) | Manual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderPlainText(tt.markup))
		})
	}
}

func TestRenderPlainText_EscapeThenRenderRoundTrips(t *testing.T) {
	inputs := []string{
		"plain text",
		"_*[]()~`>#+-=|{}.!",
		"mixed. text! with (specials) [and] *markers*",
		"多字节字符。与 markdown 混排 _test_",
	}
	for _, in := range inputs {
		assert.Equal(t, in, RenderPlainText(Escape(in)))
	}
}

func TestTruncateToFit_NoCutWhenItFits(t *testing.T) {
	markup := Escape("short text.")
	assert.Equal(t, markup, TruncateToFit(markup, 100, moreMarker))
}

func TestTruncateToFit_CutsToBudgetWithMarker(t *testing.T) {
	markup := Escape(strings.Repeat("long text. ", 50))
	budget := 40

	out := TruncateToFit(markup, budget, moreMarker)
	rendered := RenderPlainText(out)

	assert.LessOrEqual(t, len([]rune(rendered)), budget)
	assert.True(t, strings.HasSuffix(rendered, "..."))
	// the kept prefix renders to a prefix of the original text
	kept := strings.TrimSuffix(rendered, "...")
	assert.True(t, strings.HasPrefix(RenderPlainText(markup), kept))
}

func TestTruncateToFit_NeverSplitsAnEscape(t *testing.T) {
	// all-escaped markup: every rendered char costs two markup chars
	markup := strings.Repeat(`\.`, 100)

	for budget := 0; budget <= 30; budget++ {
		out := TruncateToFit(markup, budget, moreMarker)
		rendered := RenderPlainText(out)
		require.LessOrEqual(t, len([]rune(rendered)), budget, "budget %d", budget)
		for _, r := range rendered {
			require.Equal(t, '.', r)
		}
	}
}

func TestTruncateToFit_NeverSplitsALink(t *testing.T) {
	markup := "abc [anchor text](https://example.com/long/url/path) def"

	for budget := 3; budget <= 20; budget++ {
		out := TruncateToFit(markup, budget, moreMarker)
		// a cut output must not contain a dangling link opener
		require.Equal(t, strings.Count(out, "["), strings.Count(out, ")"), "budget %d: %q", budget, out)
		require.LessOrEqual(t, RenderedLength(out), budget)
	}
}

func TestTruncateToFit_BudgetTooSmallForMarker(t *testing.T) {
	assert.Equal(t, "", TruncateToFit("some long text over budget", 2, moreMarker))
}
