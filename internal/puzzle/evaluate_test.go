package puzzle_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInstance(t *testing.T, kind puzzle.Kind, seed uint64) *puzzle.Instance {
	t.Helper()
	c := newCatalog(t, 8, map[string]int{"fish": 9, "tools": 9})
	inst, err := puzzle.NewSampler(rand.New(rand.NewPCG(seed, seed))).BuildInstance(c, kind)
	require.NoError(t, err)
	return inst
}

// tokenOf returns the first pool token whose category matches want (or does not, when match is false).
func tokenOf(t *testing.T, inst *puzzle.Instance, category catalog.Category, match bool) string {
	t.Helper()
	for _, item := range inst.Pool {
		if (item.Category == category) == match {
			return item.Token
		}
	}
	t.Fatalf("no pool item found")
	return ""
}

func TestEvaluate_OddOneOut(t *testing.T) {
	tests := []struct {
		name       string
		pickOdd    bool
		wantStatus string
	}{
		{name: "odd item", pickOdd: true, wantStatus: puzzle.StatusOddCorrect},
		{name: "majority item", pickOdd: false, wantStatus: puzzle.StatusOddIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := buildInstance(t, puzzle.KindOddOneOut, 1)
			zone := inst.Zones[0]
			token := tokenOf(t, inst, zone.Accepts, tt.pickOdd)

			v := puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: token, ZoneID: zone.ID})
			assert.Equal(t, tt.pickOdd, v.Correct)
			assert.True(t, v.Terminal)
			assert.False(t, v.Ignored)
			assert.Equal(t, tt.wantStatus, v.Status)
			assert.Equal(t, tt.pickOdd, inst.Succeeded())
		})
	}
}

func TestEvaluate_SingleShotIsIdempotent(t *testing.T) {
	for _, kind := range []puzzle.Kind{puzzle.KindOddOneOut, puzzle.KindBestFit} {
		t.Run(string(kind), func(t *testing.T) {
			inst := buildInstance(t, kind, 2)
			zone := inst.Zones[0]

			first := puzzle.Evaluate(inst, puzzle.Placement{
				InstanceID: inst.ID,
				Token:      tokenOf(t, inst, zone.Accepts, false),
				ZoneID:     zone.ID,
			})
			require.True(t, first.Terminal)
			require.Equal(t, 1, inst.Mistakes)

			second := puzzle.Evaluate(inst, puzzle.Placement{
				InstanceID: inst.ID,
				Token:      tokenOf(t, inst, zone.Accepts, true),
				ZoneID:     zone.ID,
			})
			assert.True(t, second.Ignored)
			assert.True(t, second.Terminal)
			assert.Equal(t, first.Status, second.Status)
			assert.Equal(t, 1, inst.Mistakes)
			assert.False(t, inst.Succeeded())
		})
	}
}

func TestEvaluate_BestFit(t *testing.T) {
	inst := buildInstance(t, puzzle.KindBestFit, 3)
	zone := inst.Zones[0]

	// Reference items are not draggable.
	v := puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: inst.Reference[0].Token, ZoneID: zone.ID})
	require.True(t, v.Ignored)
	require.False(t, inst.Resolved)

	v = puzzle.Evaluate(inst, puzzle.Placement{
		InstanceID: inst.ID,
		Token:      tokenOf(t, inst, zone.Accepts, true),
		ZoneID:     zone.ID,
	})
	assert.True(t, v.Correct)
	assert.True(t, v.Terminal)
	assert.Equal(t, puzzle.StatusFitCorrect, v.Status)
	assert.True(t, inst.Succeeded())
}

func TestEvaluate_Sort(t *testing.T) {
	inst := buildInstance(t, puzzle.KindSort, 4)
	zoneFor := map[catalog.Category]string{}
	for _, z := range inst.Zones {
		zoneFor[z.Accepts] = z.ID
	}

	pool := append([]puzzle.Item(nil), inst.Pool...)
	for i, item := range pool {
		v := puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: item.Token, ZoneID: zoneFor[item.Category]})
		require.True(t, v.Correct)
		require.False(t, v.Ignored)
		if i < len(pool)-1 {
			require.False(t, v.Terminal)
			require.Equal(t, puzzle.StatusSortPlaced, v.Status)
		} else {
			require.True(t, v.Terminal)
			require.Equal(t, puzzle.StatusSortComplete, v.Status)
		}
	}
	assert.Empty(t, inst.Remaining)
	assert.True(t, inst.Succeeded())
}

func TestEvaluate_SortAccumulatesMistakes(t *testing.T) {
	inst := buildInstance(t, puzzle.KindSort, 5)
	zoneFor := map[catalog.Category]string{}
	otherZone := map[catalog.Category]string{}
	for _, z := range inst.Zones {
		zoneFor[z.Accepts] = z.ID
	}
	otherZone[inst.Zones[0].Accepts] = inst.Zones[1].ID
	otherZone[inst.Zones[1].Accepts] = inst.Zones[0].ID

	pool := append([]puzzle.Item(nil), inst.Pool...)
	v := puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: pool[0].Token, ZoneID: otherZone[pool[0].Category]})
	require.False(t, v.Correct)
	require.Equal(t, puzzle.StatusSortMistake, v.Status)

	// Placing the same item again is ignored and does not add a mistake.
	v = puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: pool[0].Token, ZoneID: zoneFor[pool[0].Category]})
	require.True(t, v.Ignored)

	for _, item := range pool[1:] {
		v = puzzle.Evaluate(inst, puzzle.Placement{InstanceID: inst.ID, Token: item.Token, ZoneID: zoneFor[item.Category]})
		require.True(t, v.Correct)
	}
	assert.True(t, v.Terminal)
	assert.Equal(t, 1, inst.Mistakes)
	assert.False(t, inst.Succeeded())
}

func TestEvaluate_IgnoresStalePlacements(t *testing.T) {
	tests := []struct {
		name      string
		placement func(inst *puzzle.Instance) puzzle.Placement
	}{
		{
			name: "other instance",
			placement: func(inst *puzzle.Instance) puzzle.Placement {
				return puzzle.Placement{InstanceID: "stale", Token: inst.Pool[0].Token, ZoneID: inst.Zones[0].ID}
			},
		},
		{
			name: "unknown token",
			placement: func(inst *puzzle.Instance) puzzle.Placement {
				return puzzle.Placement{InstanceID: inst.ID, Token: "inope", ZoneID: inst.Zones[0].ID}
			},
		},
		{
			name: "unknown zone",
			placement: func(inst *puzzle.Instance) puzzle.Placement {
				return puzzle.Placement{InstanceID: inst.ID, Token: inst.Pool[0].Token, ZoneID: "zone-nope"}
			},
		},
		{
			name: "anchor item",
			placement: func(inst *puzzle.Instance) puzzle.Placement {
				return puzzle.Placement{InstanceID: inst.ID, Token: inst.Zones[0].Anchor.Token, ZoneID: inst.Zones[0].ID}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := buildInstance(t, puzzle.KindSort, 6)
			v := puzzle.Evaluate(inst, tt.placement(inst))
			assert.True(t, v.Ignored)
			assert.False(t, v.Terminal)
			assert.Equal(t, 0, inst.Mistakes)
			assert.Len(t, inst.Remaining, 8)
		})
	}
}

func TestView_IsCategoryBlind(t *testing.T) {
	for _, kind := range puzzle.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			inst := buildInstance(t, kind, 7)
			v := inst.View(func(token string) string { return "/puzzles/" + string(kind) + "/items/" + token })

			assert.Equal(t, inst.ID, v.InstanceID)
			assert.Len(t, v.Items, len(inst.Remaining))
			assert.Len(t, v.Zones, len(inst.Zones))
			for _, item := range append(v.Items, v.Reference...) {
				for _, word := range []string{"fish", "tools", ".png"} {
					assert.False(t, strings.Contains(item.ImageURL, word))
					assert.False(t, strings.Contains(item.Token, word))
				}
			}
		})
	}
}

func TestView_Skeleton(t *testing.T) {
	inst := buildInstance(t, puzzle.KindSort, 8)
	v := inst.View(func(token string) string { return "/puzzles/sort-by-category/items/" + token })
	s := v.Skeleton()

	assert.Equal(t, "instance", s.InstanceID)
	assert.Equal(t, v.Status, s.Status)
	require.Len(t, s.Items, len(v.Items))
	for _, item := range s.Items {
		assert.Equal(t, puzzle.ItemView{Token: "token", ImageURL: "/puzzles/sort-by-category/items/token"}, item)
	}
	require.Len(t, s.Zones, 2)
	for i, z := range s.Zones {
		assert.Equal(t, v.Zones[i].ID, z.ID)
		assert.Equal(t, v.Zones[i].Label, z.Label)
		require.NotNil(t, z.Anchor)
		assert.Equal(t, "token", z.Anchor.Token)
	}
	// The original view is left untouched.
	assert.NotEqual(t, "token", v.Items[0].Token)
	assert.NotEqual(t, "token", v.Zones[0].Anchor.Token)
}
