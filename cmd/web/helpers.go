package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), slog.Any("formdata", r.PostForm))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

type errorTemplateData struct {
	BaseTemplateData
	Heading string
	Message string
	Reload  string
}

// puzzleError renders the static error state of a puzzle page for catalog failures and falls back to
// serverError for everything else.
func (app *application) puzzleError(w http.ResponseWriter, r *http.Request, err error) {
	data := errorTemplateData{BaseTemplateData: newBaseTemplateData(r), Heading: "Something went wrong"}
	var status int
	switch {
	case errors.Is(err, catalog.ErrConfiguration):
		status = http.StatusInternalServerError
		data.Message = puzzle.StatusConfiguration
	case errors.Is(err, catalog.ErrUnavailable):
		status = http.StatusServiceUnavailable
		data.Message = puzzle.StatusUnavailable
		data.Reload = r.URL.Path
	default:
		app.serverError(w, r, err)
		return
	}
	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "puzzle unavailable",
		slog.String("uri", r.URL.RequestURI()), errors.SlogError(err))
	app.render(w, r, status, "error", data)
}

// parseKind reads the kind path value and answers 404 for unknown kinds.
func (app *application) parseKind(w http.ResponseWriter, r *http.Request) (puzzle.Kind, bool) {
	kind, err := puzzle.ParseKind(r.PathValue("kind"))
	if err != nil {
		app.notFound(w, r)
		return "", false
	}
	return kind, true
}
