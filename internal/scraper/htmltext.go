package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "iframe": true, "svg": true, "#comment": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"caption": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "thead": true, "tfoot": true, "ul": true,
}

// VisibleText approximates a browser's innerText for the page body: block
// elements start new lines, table cells are tab separated and every table
// row is one line, kept even when all of its cells are empty.
func VisibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var t textLines
	t.walk(doc.Find("body"))
	t.endBlock()
	return strings.Join(t.lines, "\n"), nil
}

// textLines collects rendered lines. Block boundaries only end a line that
// has text; rows and <br> always end one.
type textLines struct {
	lines []string
	cur   strings.Builder
}

func (t *textLines) endBlock() {
	if strings.TrimSpace(t.cur.String()) == "" {
		t.cur.Reset()
		return
	}
	t.endLine()
}

func (t *textLines) endLine() {
	t.lines = append(t.lines, strings.TrimSpace(t.cur.String()))
	t.cur.Reset()
}

func (t *textLines) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			t.cur.WriteString(collapseSpace(c.Text()))
		case skipTags[name]:
		case name == "br":
			t.endLine()
		case name == "tr":
			t.endBlock()
			t.walk(c)
			t.endLine()
		case name == "td" || name == "th":
			t.walk(c)
			t.cur.WriteByte('\t')
		case blockTags[name]:
			t.endBlock()
			t.walk(c)
			t.endBlock()
		default:
			t.walk(c)
		}
	})
}

// collapseSpace folds runs of whitespace into one space, keeping a single
// leading or trailing space so adjacent inline text stays separated.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\r\n\f") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\r\n\f") != s {
		out += " "
	}
	return out
}
