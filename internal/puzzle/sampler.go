package puzzle

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/errors"
)

const (
	// minPerSortedCategory guards the sort puzzle against degenerate 1-vs-rest splits.
	minPerSortedCategory = 2
	tokenLength          = 12
	tokenLetters         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Sampler builds puzzle instances. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSampler returns a sampler drawing from rnd. Use [random.NewRand] in production and a seeded
// generator in tests.
func NewSampler(rnd *rand.Rand) *Sampler {
	return &Sampler{rnd: rnd}
}

// categoryPair is an ordered pair of distinct categories. The first element is the majority
// (odd-one-out), the base (best-fit) or category A (sort).
type categoryPair struct {
	first, second catalog.Category
}

// BuildInstance assembles a new instance of kind from c.
//
// It fails with [catalog.ErrConfiguration] when c has fewer than two non-empty categories or when no pair of
// categories has enough items for the kind.
func (s *Sampler) BuildInstance(c *catalog.Catalog, kind Kind) (*Instance, error) {
	names := c.NonEmpty()
	if len(names) < catalog.MinCategories {
		return nil, errors.Wrap(catalog.ErrConfiguration, "not enough categories to build this puzzle",
			slog.String("kind", string(kind)), slog.Int("non_empty", len(names)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := c.ItemsPerPuzzle
	inst := &Instance{
		ID:               uuid.NewString(),
		Kind:             kind,
		ItemsPerInstance: n,
		Placed:           map[string][]string{},
		Status:           kind.Instruction(),
	}

	var err error
	switch kind {
	case KindSort:
		err = s.buildSort(c, inst)
	case KindOddOneOut:
		err = s.buildOddOneOut(c, inst)
	case KindBestFit:
		err = s.buildBestFit(c, inst)
	default:
		err = errors.Wrap(ErrUnknownKind, "build instance", slog.String("kind", string(kind)))
	}
	if err != nil {
		return nil, err
	}

	inst.Remaining = make([]string, len(inst.Pool))
	for i, item := range inst.Pool {
		inst.Remaining[i] = item.Token
	}
	return inst, nil
}

func (s *Sampler) buildSort(c *catalog.Catalog, inst *Instance) error {
	n := inst.ItemsPerInstance
	pair, ok := s.pickPair(c, func(a, b int) bool {
		lo, hi := sortCountRange(n, a, b)
		return lo <= hi
	})
	if !ok {
		return errors.Wrap(catalog.ErrConfiguration, "no two categories can fill a sort puzzle", slog.Int("items", n))
	}

	poolA := shuffled(s.rnd, c.Assets(pair.first))
	poolB := shuffled(s.rnd, c.Assets(pair.second))
	lo, hi := sortCountRange(n, len(poolA), len(poolB))
	countA := lo + s.rnd.IntN(hi-lo+1)
	countB := n - countA

	tokens := s.newTokenSet()
	items := make([]Item, 0, n)
	for _, asset := range poolA[:countA] {
		items = append(items, newItem(asset, tokens.next()))
	}
	for _, asset := range poolB[:countB] {
		items = append(items, newItem(asset, tokens.next()))
	}
	inst.Pool = shuffled(s.rnd, items)

	inst.Zones = []Zone{
		s.sortZone("zone-a", "First group", poolA, countA, tokens),
		s.sortZone("zone-b", "Second group", poolB, countB, tokens),
	}
	// Zone order must not reveal which category was drawn first.
	s.rnd.Shuffle(len(inst.Zones), func(i, j int) {
		inst.Zones[i], inst.Zones[j] = inst.Zones[j], inst.Zones[i]
	})
	inst.Zones[0].Label, inst.Zones[1].Label = "First group", "Second group"
	return nil
}

// sortZone builds a zone with an example item drawn from the part of pool that was not sampled. When
// the category is exhausted the first sampled item doubles as the example.
func (s *Sampler) sortZone(id, label string, pool []catalog.Asset, sampled int, tokens *tokenSet) Zone {
	anchorAsset := pool[0]
	if len(pool) > sampled {
		anchorAsset = pool[sampled]
	}
	anchor := newItem(anchorAsset, tokens.next())
	return Zone{ID: id, Label: label, Accepts: anchorAsset.Category, Anchor: &anchor}
}

// sortCountRange returns the inclusive range countA may be drawn from given the category sizes.
func sortCountRange(n, sizeA, sizeB int) (int, int) {
	lo := max(minPerSortedCategory, n-sizeB)
	hi := min(n-minPerSortedCategory, sizeA)
	return lo, hi
}

func (s *Sampler) buildOddOneOut(c *catalog.Catalog, inst *Instance) error {
	n := inst.ItemsPerInstance
	majorityCount := n - 1
	pair, ok := s.pickPair(c, func(majority, odd int) bool {
		return majority >= majorityCount && odd >= 1
	})
	if !ok {
		return errors.Wrap(catalog.ErrConfiguration, "no category can fill the majority of an odd-one-out puzzle",
			slog.Int("majority", majorityCount))
	}

	tokens := s.newTokenSet()
	items := make([]Item, 0, n)
	for _, asset := range shuffled(s.rnd, c.Assets(pair.first))[:majorityCount] {
		items = append(items, newItem(asset, tokens.next()))
	}
	odd := shuffled(s.rnd, c.Assets(pair.second))[0]
	items = append(items, newItem(odd, tokens.next()))

	inst.Pool = shuffled(s.rnd, items)
	inst.Zones = []Zone{{ID: "zone-odd", Label: "Odd one out", Accepts: pair.second}}
	return nil
}

func (s *Sampler) buildBestFit(c *catalog.Catalog, inst *Instance) error {
	n := inst.ItemsPerInstance
	setSize := n - 1
	pair, ok := s.pickPair(c, func(base, other int) bool {
		return base >= setSize && other >= setSize
	})
	if !ok {
		return errors.Wrap(catalog.ErrConfiguration, "no two categories can fill a best-fit puzzle",
			slog.Int("set_size", setSize))
	}

	tokens := s.newTokenSet()
	basePool := shuffled(s.rnd, c.Assets(pair.first))
	reference := make([]Item, 0, setSize)
	for _, asset := range basePool[:setSize] {
		reference = append(reference, newItem(asset, tokens.next()))
	}

	candidates := make([]Item, 0, n)
	for _, asset := range shuffled(s.rnd, c.Assets(pair.second))[:setSize] {
		candidates = append(candidates, newItem(asset, tokens.next()))
	}
	// The matching candidate comes from the base remainder. Small base pools reuse the first base item,
	// so the candidate then shows the same image as one of the references.
	match := basePool[0]
	if len(basePool) > setSize {
		match = basePool[setSize]
	}
	candidates = append(candidates, newItem(match, tokens.next()))

	inst.Reference = shuffled(s.rnd, reference)
	inst.Pool = shuffled(s.rnd, candidates)
	inst.Zones = []Zone{{ID: "zone-fit", Label: "Best fit", Accepts: pair.first}}
	return nil
}

// pickPair draws uniformly among the ordered pairs of distinct non-empty categories whose sizes satisfy
// eligible.
func (s *Sampler) pickPair(c *catalog.Catalog, eligible func(firstSize, secondSize int) bool) (categoryPair, bool) {
	names := c.NonEmpty()
	var pairs []categoryPair
	for _, first := range names {
		for _, second := range names {
			if first == second {
				continue
			}
			if eligible(len(c.Categories[first]), len(c.Categories[second])) {
				pairs = append(pairs, categoryPair{first: first, second: second})
			}
		}
	}
	if len(pairs) == 0 {
		return categoryPair{}, false
	}
	return pairs[s.rnd.IntN(len(pairs))], true
}

// Reshuffle permutes the items that have not been placed yet.
func (s *Sampler) Reshuffle(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(inst.Remaining), func(i, j int) {
		inst.Remaining[i], inst.Remaining[j] = inst.Remaining[j], inst.Remaining[i]
	})
}

// shuffled returns a Fisher-Yates permutation of a copy of items.
func shuffled[T any](rnd *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// tokenSet hands out opaque tokens that are unique within one instance.
type tokenSet struct {
	rnd  *rand.Rand
	used map[string]struct{}
}

func (s *Sampler) newTokenSet() *tokenSet {
	return &tokenSet{rnd: s.rnd, used: map[string]struct{}{}}
}

func (t *tokenSet) next() string {
	for {
		b := make([]byte, tokenLength)
		for i := range b {
			b[i] = tokenLetters[t.rnd.IntN(len(tokenLetters))]
		}
		token := fmt.Sprintf("i%s", b)
		if _, taken := t.used[token]; !taken {
			t.used[token] = struct{}{}
			return token
		}
	}
}
