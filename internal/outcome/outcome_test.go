package outcome_test

import (
	"testing"

	"github.com/myrjola/botornot/internal/outcome"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		succeeded bool
		attempt   int
		want      outcome.Outcome
	}{
		{succeeded: true, attempt: 1, want: outcome.HumanConfirmed},
		{succeeded: true, attempt: 2, want: outcome.HumanConfirmed},
		{succeeded: true, attempt: 3, want: outcome.HumanConfirmed},
		{succeeded: true, attempt: 100, want: outcome.HumanConfirmed},
		{succeeded: false, attempt: 1, want: outcome.SuspectedFirst},
		{succeeded: false, attempt: 2, want: outcome.SuspectedSecond},
		{succeeded: false, attempt: 3, want: outcome.BotConfirmed},
		{succeeded: false, attempt: 4, want: outcome.BotConfirmed},
		{succeeded: false, attempt: 100, want: outcome.BotConfirmed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outcome.Route(tt.succeeded, tt.attempt), "Route(%t, %d)", tt.succeeded, tt.attempt)
	}
}

func TestDestination(t *testing.T) {
	tests := []struct {
		outcome outcome.Outcome
		kind    puzzle.Kind
		want    string
	}{
		{outcome: outcome.HumanConfirmed, kind: puzzle.KindOddOneOut, want: "/results/human-confirmed"},
		{outcome: outcome.SuspectedFirst, kind: puzzle.KindOddOneOut, want: "/results/suspected-first?p=odd-one-out"},
		{outcome: outcome.SuspectedSecond, kind: puzzle.KindBestFit, want: "/results/suspected-second?p=best-fit"},
		{outcome: outcome.SuspectedFirst, kind: puzzle.KindSort, want: "/results/suspected-first?p=sort-by-category"},
		{outcome: outcome.SuspectedFirst, kind: "", want: "/results/suspected-first"},
		{outcome: outcome.BotConfirmed, kind: puzzle.KindSort, want: "/results/bot-confirmed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outcome.Destination(tt.outcome, tt.kind))
	}
}

func TestParse(t *testing.T) {
	for _, o := range outcome.Outcomes {
		got, err := outcome.Parse(string(o))
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := outcome.Parse("robot")
	require.ErrorIs(t, err, outcome.ErrUnknownOutcome)
}
