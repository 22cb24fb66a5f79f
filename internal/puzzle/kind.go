package puzzle

import (
	"log/slog"

	"github.com/myrjola/botornot/internal/errors"
)

// Kind identifies one of the puzzle variants.
type Kind string

const (
	KindSort      Kind = "sort-by-category"
	KindOddOneOut Kind = "odd-one-out"
	KindBestFit   Kind = "best-fit"
)

// Kinds lists every puzzle variant in the order they are presented.
var Kinds = []Kind{KindSort, KindOddOneOut, KindBestFit} //nolint:gochecknoglobals // constant table

var ErrUnknownKind = errors.NewSentinel("unknown puzzle kind")

// ParseKind validates s as a puzzle kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrap(ErrUnknownKind, "parse kind", slog.String("kind", s))
}

// SingleShot reports whether the first valid placement resolves the puzzle.
func (k Kind) SingleShot() bool {
	return k == KindOddOneOut || k == KindBestFit
}

func (k Kind) Title() string {
	switch k {
	case KindSort:
		return "Visual Sort"
	case KindOddOneOut:
		return "Spot the Odd"
	case KindBestFit:
		return "Find the Perfect Fit"
	}
	return ""
}

func (k Kind) Instruction() string {
	switch k {
	case KindSort:
		return "Drag every icon into the drop zone whose example icon it belongs with"
	case KindOddOneOut:
		return "Among these icons, all but one belong to the same category. " +
			"Drag only the icon that does not belong into the drop zone"
	case KindBestFit:
		return "Look at the reference icons, then drag the one candidate icon that best fits with them " +
			"into the drop zone"
	}
	return ""
}
