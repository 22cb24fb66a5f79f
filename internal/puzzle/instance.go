// Package puzzle assembles challenge instances from a catalog and scores placements against them.
//
// Category identity is ground truth. It lives on [Item] and [Zone] and never leaves this package through
// [View], which is the only type the rendering layer is allowed to see.
package puzzle

import (
	"encoding/gob"
	"slices"

	"github.com/myrjola/botornot/internal/catalog"
)

func init() {
	// Instances are kept in the operator's session between requests.
	gob.Register(Instance{})
}

// ItemID is the stable identity of an asset: "<category>/<fileName>".
type ItemID string

// Item is an asset drawn into an instance.
type Item struct {
	ID       ItemID
	Token    string
	Category catalog.Category
	FileName string
}

func newItem(asset catalog.Asset, token string) Item {
	return Item{
		ID:       ItemID(string(asset.Category) + "/" + asset.FileName),
		Token:    token,
		Category: asset.Category,
		FileName: asset.FileName,
	}
}

// Zone is a drop target. Accepts is the hidden category that scores as correct.
type Zone struct {
	ID      string
	Label   string
	Accepts catalog.Category
	// Anchor is an example of the accepted category shown inside the zone. Only sort zones have one.
	Anchor *Item
}

// Placement is one operator action: drop the item with Token into the zone ZoneID.
type Placement struct {
	InstanceID string
	Token      string
	ZoneID     string
}

// Instance is one puzzle as presented to an operator, including the state of its evaluation.
type Instance struct {
	ID               string
	Kind             Kind
	ItemsPerInstance int
	// Pool is the working set of draggable items. For best-fit it holds the candidates.
	Pool []Item
	// Reference is the non-interactive context set of best-fit puzzles.
	Reference []Item
	Zones     []Zone
	// Remaining holds the tokens of pool items that have not been placed yet, in display order.
	Remaining []string
	// Placed maps zone IDs to the tokens dropped into them.
	Placed   map[string][]string
	Mistakes int
	Resolved bool
	Status   string
}

// Succeeded reports whether the instance resolved without a single mistake.
func (inst *Instance) Succeeded() bool {
	return inst.Resolved && inst.Mistakes == 0
}

// GroundTruth returns the categories accepted by the instance's zones.
func (inst *Instance) GroundTruth() []catalog.Category {
	truth := make([]catalog.Category, 0, len(inst.Zones))
	for _, z := range inst.Zones {
		truth = append(truth, z.Accepts)
	}
	return truth
}

// Item finds any item shown by the instance, including reference items and zone anchors.
func (inst *Instance) Item(token string) (Item, bool) {
	for _, set := range [][]Item{inst.Pool, inst.Reference} {
		if i := slices.IndexFunc(set, func(it Item) bool { return it.Token == token }); i >= 0 {
			return set[i], true
		}
	}
	for _, z := range inst.Zones {
		if z.Anchor != nil && z.Anchor.Token == token {
			return *z.Anchor, true
		}
	}
	return Item{}, false
}

func (inst *Instance) poolItem(token string) (Item, bool) {
	i := slices.IndexFunc(inst.Pool, func(it Item) bool { return it.Token == token })
	if i < 0 {
		return Item{}, false
	}
	return inst.Pool[i], true
}

func (inst *Instance) zone(id string) (Zone, bool) {
	if id == "" && len(inst.Zones) == 1 {
		return inst.Zones[0], true
	}
	i := slices.IndexFunc(inst.Zones, func(z Zone) bool { return z.ID == id })
	if i < 0 {
		return Zone{}, false
	}
	return inst.Zones[i], true
}
