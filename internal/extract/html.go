package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<\s*(p|div|br|li|ul|ol|h[1-6]|span|strong|em|b|i|section|article|body|html)\b[^>]*>`)
	spaceRun       = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

const blockSelectors = "p, div, br, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer"

// LooksLikeHTML reports whether text carries common markup, as job descriptions pasted
// from careers pages often do.
func LooksLikeHTML(text string) bool {
	return htmlTagPattern.MatchString(text)
}

// HTMLToText drops script, style and navigation noise and returns the visible text with
// one line per block element and runs of spaces collapsed. Input that fails to parse is
// returned trimmed.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style, noscript, nav, iframe, svg").Remove()
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
