package html_parser

import (
	"encoding/json"
	"html"
	"strings"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// minReadableRunes is the shortest readability output trusted as the article body.
// Shorter output is usually just the headline or byline.
const minReadableRunes = 200

var strictPolicy = bluemonday.StrictPolicy()

// ExtractArticleText converts raw article HTML into plain text paragraphs
// separated by blank lines. Plain-text input is returned with normalized whitespace.
func ExtractArticleText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err == nil {
		if text := nextDataArticle(doc); text != "" {
			return text
		}

		removeBoilerplate(doc)
		if cleaned, err := doc.Html(); err == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	if text := readableText(trimmed); text != "" {
		return text
	}

	return extractParagraphs(trimmed)
}

// nextDataArticle reads props.pageProps.article from a Next.js __NEXT_DATA__ script.
func nextDataArticle(doc *goquery.Document) string {
	script := doc.Find("script[id='__NEXT_DATA__']")
	if script.Length() == 0 {
		return ""
	}

	var data struct {
		Props struct {
			PageProps struct {
				Article struct {
					Title    string `json:"title"`
					BodyHTML string `json:"bodyHtml"`
				} `json:"article"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return ""
	}

	article := data.Props.PageProps.Article
	if article.BodyHTML == "" {
		return ""
	}
	text := extractParagraphs(article.BodyHTML)
	if text == "" {
		return ""
	}
	if article.Title != "" {
		return article.Title + "\n\n" + text
	}
	return text
}

func removeBoilerplate(doc *goquery.Document) {
	doc.Find("head, script, style, noscript, title, aside, nav, header, footer").Remove()
	doc.Find("iframe, embed, object, video, audio, canvas, form").Remove()
	doc.Find("[class*='social'], [class*='share'], [id*='social'], [id*='share']").Remove()
	doc.Find("[class*='comment'], [id*='comment'], [class*='newsletter'], [class*='advert'], [id*='advert']").Remove()
	doc.Find("[class*='related'], [class*='recommend'], [class*='cookie']").Remove()
}

func readableText(markup string) string {
	article, err := readability.FromReader(strings.NewReader(markup), nil)
	if err != nil {
		return ""
	}

	var textBuf strings.Builder
	if err := article.RenderText(&textBuf); err != nil {
		return ""
	}
	text := strings.TrimSpace(textBuf.String())
	if utf8.RuneCountInString(text) < minReadableRunes {
		return ""
	}

	// Prefer the structured HTML so paragraphs survive.
	var htmlBuf strings.Builder
	if err := article.RenderHTML(&htmlBuf); err == nil {
		if body := extractParagraphs(htmlBuf.String()); body != "" {
			return body
		}
	}
	return normalizeWhitespace(text)
}

// extractParagraphs collects headings, paragraphs, code blocks and list items
// in document order, separated by blank lines.
func extractParagraphs(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return StripTags(markup)
	}

	var paragraphs []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, pre, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		// nested blocks are picked up through their own element
		if s.ParentsFiltered("p, pre, li, blockquote").Length() > 0 {
			return
		}
		if text := normalizeWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		doc.Find("article, section, div").Each(func(_ int, s *goquery.Selection) {
			if s.Find("article, section, div").Length() > 0 {
				return
			}
			if text := normalizeWhitespace(s.Text()); utf8.RuneCountInString(text) > 10 {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	if len(paragraphs) == 0 {
		return StripTags(markup)
	}
	return strings.Join(paragraphs, "\n\n")
}

// StripTags removes all HTML and returns whitespace-normalized plain text
// with entities decoded.
func StripTags(raw string) string {
	return normalizeWhitespace(html.UnescapeString(strictPolicy.Sanitize(raw)))
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
