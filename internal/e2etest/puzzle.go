package e2etest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/botornot/internal/errors"
)

// PuzzlePage is what an operator sees of a puzzle page.
type PuzzlePage struct {
	Doc        *goquery.Document
	InstanceID string
	// Items are the tokens of the draggable items in display order.
	Items []string
	// Zones are the ids of the drop zones.
	Zones []string
	// Images maps every item token on the page, including reference and example items, to its image URL.
	Images map[string]string
	Status string
}

// PuzzlePath is the page of a puzzle kind.
func PuzzlePath(kind string) string {
	return "/puzzles/" + kind
}

// PlacementPath is the form action accepting placements for kind.
func PlacementPath(kind string) string {
	return fmt.Sprintf("/puzzles/%s/placements", kind)
}

// OpenPuzzle loads the puzzle page of kind.
func (c *Client) OpenPuzzle(ctx context.Context, kind string) (*PuzzlePage, error) {
	doc, err := c.GetDoc(ctx, PuzzlePath(kind))
	if err != nil {
		return nil, errors.Wrap(err, "get puzzle page")
	}
	return ParsePuzzlePage(doc), nil
}

// ParsePuzzlePage reads the puzzle markup.
func ParsePuzzlePage(doc *goquery.Document) *PuzzlePage {
	page := &PuzzlePage{Doc: doc, Images: map[string]string{}}
	page.InstanceID, _ = doc.Find("[data-instance-id]").First().Attr("data-instance-id")
	doc.Find("[data-item]").Each(func(_ int, s *goquery.Selection) {
		token, _ := s.Attr("data-item")
		if src, ok := s.Find("img").Attr("src"); ok {
			page.Images[token] = src
		}
		if _, draggable := s.Attr("draggable"); draggable {
			page.Items = append(page.Items, token)
		}
	})
	doc.Find("[data-zone]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-zone")
		page.Zones = append(page.Zones, id)
	})
	page.Status = doc.Find("[role=status]").First().Text()
	return page
}

// Place drops item into zone through the HTML form of page.
func (c *Client) Place(ctx context.Context, kind string, page *PuzzlePage, item, zone string) (*Response, error) {
	resp, err := c.PostForm(ctx, page.Doc, PlacementPath(kind), url.Values{
		"instance_id": {page.InstanceID},
		"item":        {item},
		"zone":        {zone},
	})
	if err != nil {
		return nil, errors.Wrap(err, "post placement")
	}
	return resp, nil
}
