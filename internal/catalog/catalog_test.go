package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		format  catalog.Format
		wantErr error
	}{
		{
			name: "json",
			doc: `{"itemsPerPuzzle": 8, "categories": {
				"fish": [{"fileName": "a.png", "category": "fish"}],
				"tools": [{"fileName": "b.png"}]}}`,
			format: catalog.FormatJSON,
		},
		{
			name: "yaml",
			doc: `
itemsPerPuzzle: 6
categories:
  fish:
    - fileName: a.png
  tools:
    - fileName: b.png
      category: tools
`,
			format: catalog.FormatYAML,
		},
		{
			name:    "malformed json",
			doc:     `{"categories": [`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrUnavailable,
		},
		{
			name:    "single category",
			doc:     `{"categories": {"fish": [{"fileName": "a.png"}], "tools": []}}`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrConfiguration,
		},
		{
			name:    "no categories",
			doc:     `{"itemsPerPuzzle": 8}`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrConfiguration,
		},
		{
			name: "too few items per puzzle",
			doc: `{"itemsPerPuzzle": 3, "categories": {
				"fish": [{"fileName": "a.png"}], "tools": [{"fileName": "b.png"}]}}`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrConfiguration,
		},
		{
			name: "mismatching item category",
			doc: `{"categories": {
				"fish": [{"fileName": "a.png", "category": "tools"}], "tools": [{"fileName": "b.png"}]}}`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrConfiguration,
		},
		{
			name: "path traversal in file name",
			doc: `{"categories": {
				"fish": [{"fileName": "../secret"}], "tools": [{"fileName": "b.png"}]}}`,
			format:  catalog.FormatJSON,
			wantErr: catalog.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Parse([]byte(tt.doc), tt.format)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []catalog.Category{"fish", "tools"}, c.NonEmpty())
			for name, assets := range c.Categories {
				for _, asset := range assets {
					require.Equal(t, name, asset.Category)
				}
			}
		})
	}
}

func TestParseDefaultsItemsPerPuzzle(t *testing.T) {
	c, err := catalog.Parse([]byte(`{"categories": {"a": [{"fileName": "1.png"}], "b": [{"fileName": "2.png"}]}}`),
		catalog.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, catalog.DefaultItemsPerPuzzle, c.ItemsPerPuzzle)
}

func TestEmbeddedSource(t *testing.T) {
	c, err := catalog.NewSource("").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, c.ItemsPerPuzzle)
	require.Len(t, c.NonEmpty(), 7)
	for _, name := range c.NonEmpty() {
		require.GreaterOrEqual(t, len(c.Assets(name)), c.ItemsPerPuzzle)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	doc := "categories:\n  fish:\n    - fileName: a.png\n  tools:\n    - fileName: b.png\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := catalog.NewSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []catalog.Asset{{FileName: "a.png", Category: "fish"}}, c.Assets("fish"))

	_, err = catalog.NewSource(filepath.Join(dir, "missing.json")).Load(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/catalog.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"categories": {"fish": [{"fileName": "a.png"}], "tools": [{"fileName": "b.png"}]}}`))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("/huge.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(strings.Repeat(" ", 1<<20)))
		_, _ = w.Write([]byte(`{"categories": {"fish": [{"fileName": "a.png"}], "tools": [{"fileName": "b.png"}]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := catalog.NewSource(srv.URL + "/catalog.json").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c.NonEmpty(), 2)

	_, err = catalog.NewSource(srv.URL + "/broken.json").Load(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)

	_, err = catalog.NewSource(srv.URL + "/huge.json").Load(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	require.ErrorContains(t, err, "catalog too large")
}
