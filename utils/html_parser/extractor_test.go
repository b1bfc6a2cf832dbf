package html_parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractArticleText(t *testing.T) {
	longParagraph := strings.Repeat("Generative models are reshaping how newsrooms work. ", 8)

	tests := map[string]struct {
		raw      string
		contains []string
		excludes []string
		want     string
	}{
		"empty input": {
			raw:  "   ",
			want: "",
		},
		"plain text is normalized": {
			raw:  "  hello\n\n   world  ",
			want: "hello world",
		},
		"article body without boilerplate": {
			raw: `<html><head><title>Site</title><script>track()</script></head><body>
				<nav>Home | About</nav>
				<article><h1>AI headline</h1><p>` + longParagraph + `</p><p>Second paragraph.</p></article>
				<div class="share-buttons">Share on X</div>
				<footer>Copyright</footer>
			</body></html>`,
			contains: []string{"Generative models are reshaping", "Second paragraph."},
			excludes: []string{"track()", "Share on X", "Copyright", "Home | About"},
		},
		"next data article": {
			raw: `<html><body><div id="app"></div>
				<script id="__NEXT_DATA__" type="application/json">
				{"props":{"pageProps":{"article":{"title":"Next title","bodyHtml":"<p>From next data.</p>"}}}}
				</script></body></html>`,
			want: "Next title\n\nFrom next data.",
		},
		"div only markup falls back to blocks": {
			raw:      `<html><body><div>Short intro text for the story</div></body></html>`,
			contains: []string{"Short intro text for the story"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractArticleText(tc.raw)

			if tc.contains == nil && tc.excludes == nil {
				assert.Equal(t, tc.want, got)
				return
			}
			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"link and font": {
			raw:  `<a href="https://example.com">OpenAI ships model</a>&nbsp;&nbsp;<font color="#6f6f6f">Reuters</font>`,
			want: "OpenAI ships model Reuters",
		},
		"entities decoded": {
			raw:  "R&amp;D spending &quot;soars&quot;",
			want: `R&D spending "soars"`,
		},
		"plain": {
			raw:  "already plain",
			want: "already plain",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripTags(tc.raw))
		})
	}
}
