// Package outcome maps a challenge verdict and attempt number to one of four terminal destinations.
package outcome

import (
	"log/slog"
	"net/url"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

// Outcome is a terminal navigation target.
type Outcome string

const (
	HumanConfirmed  Outcome = "human-confirmed"
	SuspectedFirst  Outcome = "suspected-first"
	SuspectedSecond Outcome = "suspected-second"
	BotConfirmed    Outcome = "bot-confirmed"
)

// Outcomes lists every destination.
var Outcomes = []Outcome{HumanConfirmed, SuspectedFirst, SuspectedSecond, BotConfirmed} //nolint:gochecknoglobals // constant table

var ErrUnknownOutcome = errors.NewSentinel("unknown outcome")

// Route decides where an operator goes after a resolved challenge. attempt starts at 1.
func Route(succeeded bool, attempt int) Outcome {
	switch {
	case succeeded:
		return HumanConfirmed
	case attempt <= 1:
		return SuspectedFirst
	case attempt == 2:
		return SuspectedSecond
	default:
		return BotConfirmed
	}
}

// Parse validates s as an outcome.
func Parse(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", errors.Wrap(ErrUnknownOutcome, "parse outcome", slog.String("outcome", s))
}

// Suspected reports whether the operator may retry from the outcome page.
func (o Outcome) Suspected() bool {
	return o == SuspectedFirst || o == SuspectedSecond
}

// Destination is the path the caller redirects to. Suspected outcomes carry the kind in the p query parameter
// so the page can link back to the same puzzle.
func Destination(o Outcome, kind puzzle.Kind) string {
	path := "/results/" + string(o)
	if o.Suspected() && kind != "" {
		path += "?" + url.Values{"p": {string(kind)}}.Encode()
	}
	return path
}
