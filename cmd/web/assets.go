package main

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/myrjola/botornot/internal/puzzle"
)

// assetServer serves item images from a directory. Items without a file get a generated placeholder.
type assetServer struct {
	dir string
}

func newAssetServer(dir string) *assetServer {
	return &assetServer{dir: dir}
}

// candidates lists where the image of item may be stored, most specific first.
func (s *assetServer) candidates(item puzzle.Item) []string {
	name := filepath.Base(item.FileName)
	return []string{
		filepath.Join(s.dir, filepath.Base(string(item.Category)), name),
		filepath.Join(s.dir, name),
	}
}

func (s *assetServer) serve(w http.ResponseWriter, r *http.Request, item puzzle.Item) {
	// Tokens are single use, caching them only fills up the browser cache.
	w.Header().Set("Cache-Control", "no-store")

	for _, path := range s.candidates(item) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		// The file name is only used for content type detection and never sent to the client.
		http.ServeContent(w, r, item.FileName, time.Time{}, bytes.NewReader(data))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(placeholder(item))
}

var placeholderShapes = []string{ //nolint:gochecknoglobals // constant table
	`<circle cx="32" cy="32" r="24" fill="hsl(%d 70%% 50%%)"/>`,
	`<rect x="10" y="10" width="44" height="44" rx="6" fill="hsl(%d 70%% 50%%)"/>`,
	`<polygon points="32,6 58,56 6,56" fill="hsl(%d 70%% 50%%)"/>`,
	`<polygon points="32,4 60,32 32,60 4,32" fill="hsl(%d 70%% 50%%)"/>`,
}

// placeholder draws an icon whose shape and hue depend on the item's category and whose brightness
// depends on the file, so items of one category look alike without being identical.
func placeholder(item puzzle.Item) []byte {
	category := fnv.New32a()
	_, _ = category.Write([]byte(item.Category))
	sum := category.Sum32()

	file := fnv.New32a()
	_, _ = file.Write([]byte(item.FileName))

	shape := fmt.Sprintf(placeholderShapes[sum%uint32(len(placeholderShapes))], sum%360) //nolint:gosec // small table
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64" width="64" height="64">`+
			`<rect width="64" height="64" fill="hsl(0 0%% %d%%)"/>%s</svg>`,
		85+file.Sum32()%15, shape)) //nolint:mnd // light background
}
