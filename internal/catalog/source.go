package catalog

import (
	"context"
	_ "embed"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/myrjola/botornot/internal/errors"
)

//go:embed default.json
var defaultCatalog []byte

// maxDocumentSize caps how much of a remote catalog document is read.
const maxDocumentSize = 1 << 20

// Source loads a catalog. Puzzle pages load it once per page.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// NewSource picks a source for location: an http(s) URL, a JSON/YAML file path or,
// when location is empty, the embedded default catalog.
func NewSource(location string) Source {
	switch {
	case location == "":
		return EmbeddedSource{}
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{
			URL:    location,
			Client: &http.Client{Timeout: 5 * time.Second}, //nolint:mnd // generous for a small JSON document
		}
	default:
		return FileSource{Path: location}
	}
}

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) (*Catalog, error) {
	c, err := Parse(defaultCatalog, FormatJSON)
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}
	return c, nil
}

// FileSource reads a JSON or YAML catalog from the local file system.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, "read catalog file",
			slog.String("path", s.Path), slog.String("cause", err.Error()))
	}
	c, err := Parse(data, FormatFromPath(s.Path))
	if err != nil {
		return nil, errors.Wrap(err, "parse catalog file", slog.String("path", s.Path))
	}
	return c, nil
}

// HTTPSource fetches the catalog document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, "create request",
			slog.String("url", s.URL), slog.String("cause", err.Error()))
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, "fetch catalog",
			slog.String("url", s.URL), slog.String("cause", err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrap(ErrUnavailable, "unexpected status code",
			slog.String("url", s.URL), slog.Int("status", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, "read catalog body",
			slog.String("url", s.URL), slog.String("cause", err.Error()))
	}
	if len(data) > maxDocumentSize {
		return nil, errors.Wrap(ErrUnavailable, "catalog too large",
			slog.String("url", s.URL), slog.Int("max_bytes", maxDocumentSize))
	}

	format := FormatFromPath(s.URL)
	if u, parseErr := url.Parse(s.URL); parseErr == nil {
		format = FormatFromPath(u.Path)
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(err, "parse fetched catalog", slog.String("url", s.URL))
	}
	return c, nil
}
