package main

import (
	"net/http"

	"github.com/myrjola/botornot/internal/puzzle"
)

type puzzleLink struct {
	Kind  puzzle.Kind
	Title string
}

type homeTemplateData struct {
	BaseTemplateData
	Puzzles []puzzleLink
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
	}
	for _, kind := range puzzle.Kinds {
		data.Puzzles = append(data.Puzzles, puzzleLink{Kind: kind, Title: kind.Title()})
	}

	app.render(w, r, http.StatusOK, "home", data)
}
