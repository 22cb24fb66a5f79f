package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/e2etest"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/logging"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/myrjola/botornot/internal/ssr"
)

// maxPlacements bounds a sort puzzle play-through.
const maxPlacements = 32

// PlayPuzzle opens the puzzle of kind, checks the page does not name any of categories and drops items into
// the first zone until the puzzle resolves. It returns the result path the operator ended up at.
func PlayPuzzle(ctx context.Context, client *e2etest.Client, kind puzzle.Kind, categories []string) (string, error) {
	body, err := client.GetBytes(ctx, e2etest.PuzzlePath(string(kind)))
	if err != nil {
		return "", errors.Wrap(err, "get puzzle page")
	}
	if err = ssr.CheckCategoryBlind(bytes.NewReader(body), categories); err != nil {
		return "", errors.Wrap(err, "check category blind")
	}

	page, err := client.OpenPuzzle(ctx, string(kind))
	if err != nil {
		return "", errors.Wrap(err, "open puzzle")
	}
	for _, src := range page.Images {
		if _, err = client.GetBytes(ctx, src); err != nil {
			return "", errors.Wrap(err, "get item image", slog.String("src", src))
		}
	}

	for range maxPlacements {
		if len(page.Items) == 0 || len(page.Zones) == 0 {
			return "", errors.New("puzzle page has nothing to place", slog.String("kind", string(kind)))
		}
		resp, placeErr := client.Place(ctx, string(kind), page, page.Items[0], page.Zones[0])
		if placeErr != nil {
			return "", errors.Wrap(placeErr, "place item")
		}
		if strings.HasPrefix(resp.Path, "/results/") {
			return resp.Path, nil
		}
		page = e2etest.ParsePuzzlePage(resp.Doc)
	}
	return "", errors.New("puzzle did not resolve", slog.String("kind", string(kind)))
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // 30 seconds
	defer cancel()

	// The deployed catalog is expected to be the built-in one.
	c, err := catalog.EmbeddedSource{}.Load(ctx)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error loading catalog", errors.SlogError(err))
		os.Exit(1)
	}
	categories := make([]string, 0, len(c.Categories))
	for _, category := range c.NonEmpty() {
		categories = append(categories, string(category))
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	for _, kind := range puzzle.Kinds {
		var path string
		if path, err = PlayPuzzle(ctx, client, kind, categories); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error playing puzzle",
				slog.String("kind", string(kind)), errors.SlogError(err))
			os.Exit(1)
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "puzzle resolved",
			slog.String("kind", string(kind)), slog.String("result", path))
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
}
