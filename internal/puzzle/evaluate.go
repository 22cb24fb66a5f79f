package puzzle

import "slices"

// Status strings announced to assistive technology. They never mention a category.
const (
	StatusSortMistake   = "One or more items may have been placed incorrectly"
	StatusSortPlaced    = "Item placed"
	StatusSortComplete  = "All items have been sorted"
	StatusOddCorrect    = "An odd icon has been selected"
	StatusOddIncorrect  = "The selected icon may not be the odd one out"
	StatusFitCorrect    = "A matching icon has been selected"
	StatusFitIncorrect  = "The selected icon may not be the best fit"
	StatusConfiguration = "Configuration Error: Not enough categories to build this puzzle"
	StatusUnavailable   = "Unable to load puzzle items. Please reload the page or try again"
)

// Verdict is the result of evaluating a single placement.
type Verdict struct {
	Correct bool
	// Terminal is true once the instance is resolved.
	Terminal bool
	// Ignored placements did not change the instance.
	Ignored bool
	Status  string
}

// Evaluate scores p against the hidden ground truth of inst and updates its state.
//
// Placements for another instance, unknown or already placed tokens, reference items, unknown zones and
// any placement on a resolved instance are ignored.
func Evaluate(inst *Instance, p Placement) Verdict {
	ignored := Verdict{Terminal: inst.Resolved, Ignored: true, Status: inst.Status}
	if inst.Resolved || (p.InstanceID != "" && p.InstanceID != inst.ID) {
		return ignored
	}
	if !slices.Contains(inst.Remaining, p.Token) {
		return ignored
	}
	item, ok := inst.poolItem(p.Token)
	if !ok {
		return ignored
	}
	zone, ok := inst.zone(p.ZoneID)
	if !ok {
		return ignored
	}

	correct := item.Category == zone.Accepts
	if !correct {
		inst.Mistakes++
	}
	inst.Remaining = slices.DeleteFunc(inst.Remaining, func(token string) bool { return token == p.Token })
	if inst.Placed == nil {
		inst.Placed = map[string][]string{}
	}
	inst.Placed[zone.ID] = append(inst.Placed[zone.ID], p.Token)

	switch inst.Kind {
	case KindSort:
		switch {
		case len(inst.Remaining) == 0:
			inst.Resolved = true
			inst.Status = StatusSortComplete
		case inst.Mistakes > 0:
			inst.Status = StatusSortMistake
		default:
			inst.Status = StatusSortPlaced
		}
	case KindOddOneOut:
		inst.Resolved = true
		inst.Status = pick(correct, StatusOddCorrect, StatusOddIncorrect)
	case KindBestFit:
		inst.Resolved = true
		inst.Status = pick(correct, StatusFitCorrect, StatusFitIncorrect)
	}

	return Verdict{Correct: correct, Terminal: inst.Resolved, Status: inst.Status}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
