package main

import (
	"net/http"

	"github.com/myrjola/botornot/internal/outcome"
	"github.com/myrjola/botornot/internal/puzzle"
)

type resultTemplateData struct {
	BaseTemplateData
	Outcome  outcome.Outcome
	Heading  string
	Message  string
	RetryURL string
}

func resultCopy(o outcome.Outcome) (string, string) {
	switch o {
	case outcome.HumanConfirmed:
		return "Welcome, human", "You solved the puzzle. You may continue."
	case outcome.SuspectedFirst:
		return "Are you sure you are human?", "That did not look quite right. Give it another go."
	case outcome.SuspectedSecond:
		return "Still not convinced", "That was another miss. One more and we will have to assume you are a bot."
	case outcome.BotConfirmed:
		return "Bot detected", "Too many puzzles went wrong in a short time. Access has been denied."
	}
	return "", ""
}

func (app *application) result(w http.ResponseWriter, r *http.Request) {
	o, err := outcome.Parse(r.PathValue("outcome"))
	if err != nil {
		app.notFound(w, r)
		return
	}

	data := resultTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Outcome:          o,
	}
	data.Heading, data.Message = resultCopy(o)
	if o.Suspected() {
		if kind, kindErr := puzzle.ParseKind(r.URL.Query().Get("p")); kindErr == nil {
			data.RetryURL = puzzlePath(kind)
		}
	}

	app.render(w, r, http.StatusOK, "result", data)
}
