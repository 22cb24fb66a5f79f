package main

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/myrjola/botornot/ui"
)

func (app *application) routes(defaultTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	staticFiles, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err) // The static directory is embedded at compile time.
	}
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(staticFiles)))

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.identifyOperator, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("GET /puzzles/{kind}", session.ThenFunc(app.puzzle))
	mux.Handle("POST /puzzles/{kind}/placements", session.ThenFunc(app.placeForm))
	mux.Handle("POST /api/puzzles/{kind}/placements", session.ThenFunc(app.placeJSON))
	mux.Handle("GET /puzzles/{kind}/items/{token}", session.ThenFunc(app.itemImage))
	mux.Handle("GET /results/{outcome}", session.ThenFunc(app.result))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return common.Then(timeoutHandler(mux, defaultTimeout))
}
