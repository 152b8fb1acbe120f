package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sanctionscan/internal/screening/models"
)

// unFragmentSep splits a UN name cell on numbered part prefixes ("1: ") and
// whitespace, including the &nbsp; the rendered page uses between parts. "na"
// placeholders are removed as whole fragments afterwards.
var unFragmentSep = regexp.MustCompile(`\d+:[\s\p{Z}]*|[\s\p{Z}]+`)

// UNRule extracts names from the rendered UN consolidated list markup. The
// page is a table whose data rows carry the "rowtext" class; each name sits
// in the text node following a bold "Name:" label.
type UNRule struct{}

func (UNRule) List() models.List { return models.ListUN }

func (UNRule) Version() string { return "un-html/1" }

func (UNRule) Extract(markup string) []string {
	names := make([]string, 0)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return names
	}

	doc.Find("tr.rowtext").Each(func(_ int, row *goquery.Selection) {
		row.Find("strong").Each(func(_ int, label *goquery.Selection) {
			if !strings.Contains(label.Text(), "Name:") {
				return
			}
			sibling := label.Get(0).NextSibling
			if sibling == nil {
				return
			}
			if name := joinUNFragments(siblingText(doc, sibling)); name != "" {
				names = append(names, name)
			}
		})
	})
	return names
}

func siblingText(doc *goquery.Document, n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	return doc.FindNodes(n).Text()
}

func joinUNFragments(raw string) string {
	parts := unFragmentSep.Split(raw, -1)
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || isDigits(p) || strings.EqualFold(p, "na") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
