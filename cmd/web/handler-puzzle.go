package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

const maxPlacementBodySize = 4 << 10

type puzzleTemplateData struct {
	BaseTemplateData
	View puzzle.View
}

func puzzlePath(kind puzzle.Kind) string {
	return "/puzzles/" + string(kind)
}

func itemImageURL(kind puzzle.Kind) func(token string) string {
	return func(token string) string {
		return puzzlePath(kind) + "/items/" + token
	}
}

// puzzle shows the operator's unresolved instance of the kind or starts a new one.
func (app *application) puzzle(w http.ResponseWriter, r *http.Request) {
	kind, ok := app.parseKind(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	inst := app.activeInstance(ctx, kind)
	if inst == nil {
		var err error
		if inst, err = app.challenges.Start(ctx, kind); err != nil {
			app.puzzleError(w, r, err)
			return
		}
		app.storeInstance(ctx, inst)
	}

	truth := inst.GroundTruth()
	categories := make([]string, len(truth))
	for i, c := range truth {
		categories[i] = string(c)
	}
	view := inst.View(itemImageURL(kind))
	base := newBaseTemplateData(r)
	buf, err := app.renderBlind(r, "puzzle",
		puzzleTemplateData{BaseTemplateData: base, View: view},
		puzzleTemplateData{BaseTemplateData: base, View: view.Skeleton()},
		categories)
	if err != nil {
		// Drop the instance so that a reload starts over instead of failing again.
		app.sessionManager.Remove(ctx, instanceSessionKey(kind))
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// placeForm handles the no-JavaScript placement form. It always answers with a redirect.
func (app *application) placeForm(w http.ResponseWriter, r *http.Request) {
	kind, ok := app.parseKind(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	destination := app.place(r, kind, puzzle.Placement{
		InstanceID: r.PostForm.Get("instance_id"),
		Token:      r.PostForm.Get("item"),
		ZoneID:     r.PostForm.Get("zone"),
	}).Redirect
	if destination == "" {
		destination = puzzlePath(kind)
	}
	http.Redirect(w, r, destination, http.StatusSeeOther)
}

type placementRequest struct {
	InstanceID string `json:"instanceId"`
	Item       string `json:"item"`
	Zone       string `json:"zone"`
}

type placementResponse struct {
	Status   string `json:"status"`
	Ignored  bool   `json:"ignored"`
	Terminal bool   `json:"terminal"`
	// Redirect is set once the placement resolved the instance.
	Redirect string `json:"redirect,omitempty"`
}

// placeJSON handles placements made by drag and drop.
func (app *application) placeJSON(w http.ResponseWriter, r *http.Request) {
	kind, ok := app.parseKind(w, r)
	if !ok {
		return
	}

	var req placementRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlacementBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	resp := app.place(r, kind, puzzle.Placement{InstanceID: req.InstanceID, Token: req.Item, ZoneID: req.Zone})
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write placement response",
			errors.SlogError(err))
	}
}

// place applies p to the operator's active instance of kind. Without an active instance the placement is
// ignored.
func (app *application) place(r *http.Request, kind puzzle.Kind, p puzzle.Placement) placementResponse {
	ctx := r.Context()
	inst := app.activeInstance(ctx, kind)
	if inst == nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "placement without active instance",
			slog.String("kind", string(kind)), slog.String("instance_id", p.InstanceID))
		return placementResponse{Ignored: true}
	}

	result := app.challenges.Place(ctx, inst, p)
	app.storeInstance(ctx, inst)
	return placementResponse{
		Status:   result.Status,
		Ignored:  result.Ignored,
		Terminal: result.Terminal,
		Redirect: result.Destination,
	}
}

// itemImage serves the image behind an item token of the operator's active instance.
func (app *application) itemImage(w http.ResponseWriter, r *http.Request) {
	kind, ok := app.parseKind(w, r)
	if !ok {
		return
	}
	inst := app.activeInstance(r.Context(), kind)
	if inst == nil {
		app.notFound(w, r)
		return
	}
	item, ok := inst.Item(r.PathValue("token"))
	if !ok {
		app.notFound(w, r)
		return
	}
	app.assets.serve(w, r, item)
}
