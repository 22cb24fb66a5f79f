// Package ssr inspects server rendered HTML before it is written to the client.
package ssr

import (
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/botornot/internal/errors"
	"golang.org/x/net/html"
)

var ErrCategoryLeak = errors.NewSentinel("category name in rendered markup")

// Leak is one place where a category name shows up in a document.
type Leak struct {
	Category string
	// Where is "text" or the name of the attribute.
	Where string
	Tag   string
}

// FindCategoryLeaks lists every text node and attribute value in the document that contains one of the
// category names as a whole word, ignoring case. Script and style contents are inspected like text.
func FindCategoryLeaks(r io.Reader, categories []string) ([]Leak, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	wanted := make(map[string]string, len(categories))
	for _, c := range categories {
		wanted[strings.ToLower(c)] = c
	}

	var leaks []Leak
	match := func(s string) (string, bool) {
		for _, word := range splitWords(s) {
			if c, ok := wanted[word]; ok {
				return c, true
			}
		}
		return "", false
	}

	eachValue(doc, func(node *html.Node, where string, value string) {
		if c, ok := match(value); ok {
			leaks = append(leaks, Leak{Category: c, Where: where, Tag: node.Data})
		}
	})
	return leaks, nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// eachValue calls fn for every attribute value and every text node of the document. where is the attribute
// name or "text".
func eachValue(doc *goquery.Document, fn func(node *html.Node, where string, value string)) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		for _, attr := range node.Attr {
			fn(node, attr.Key, attr.Val)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				fn(node, "text", child.Data)
			}
		}
	})
}

// Vocabulary returns the lowercased words of every text node and attribute value in the document.
func Vocabulary(r io.Reader) (map[string]struct{}, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	words := map[string]struct{}{}
	eachValue(doc, func(_ *html.Node, _ string, value string) {
		for _, word := range splitWords(value) {
			words[word] = struct{}{}
		}
	})
	return words, nil
}

// CheckCategoryBlind fails with [ErrCategoryLeak] when the document mentions any of the categories.
func CheckCategoryBlind(r io.Reader, categories []string) error {
	leaks, err := FindCategoryLeaks(r, categories)
	if err != nil {
		return err
	}
	if len(leaks) > 0 {
		first := leaks[0]
		return errors.Wrap(ErrCategoryLeak, "check category blind",
			slog.Int("leaks", len(leaks)),
			slog.String("category", first.Category),
			slog.String("where", first.Where),
			slog.String("tag", first.Tag))
	}
	return nil
}

// CheckCategoryBlindAgainst is like [CheckCategoryBlind] but skips categories whose name already appears in
// baseline. baseline is the same page rendered without any per-instance data, so its words are layout that
// every operator sees regardless of the answer.
func CheckCategoryBlindAgainst(r, baseline io.Reader, categories []string) error {
	layout, err := Vocabulary(baseline)
	if err != nil {
		return errors.Wrap(err, "read baseline")
	}
	checked := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, ok := layout[strings.ToLower(c)]; !ok {
			checked = append(checked, c)
		}
	}
	return CheckCategoryBlind(r, checked)
}
