package puzzle

import "strings"

// ItemView is everything the rendering layer may know about an item.
type ItemView struct {
	Token    string
	ImageURL string
}

// ZoneView is a drop target without its accepted category.
type ZoneView struct {
	ID     string
	Label  string
	Anchor *ItemView
	Placed []ItemView
}

// View is the category-free projection of an instance used by templates and API responses.
type View struct {
	InstanceID  string
	Kind        Kind
	Title       string
	Instruction string
	Status      string
	Items       []ItemView
	Reference   []ItemView
	Zones       []ZoneView
	Resolved    bool
}

// View projects inst for rendering. imageURL maps a token to the URL serving its image.
func (inst *Instance) View(imageURL func(token string) string) View {
	itemView := func(token string) ItemView {
		return ItemView{Token: token, ImageURL: imageURL(token)}
	}

	v := View{
		InstanceID:  inst.ID,
		Kind:        inst.Kind,
		Title:       inst.Kind.Title(),
		Instruction: inst.Kind.Instruction(),
		Status:      inst.Status,
		Resolved:    inst.Resolved,
	}
	for _, token := range inst.Remaining {
		v.Items = append(v.Items, itemView(token))
	}
	for _, item := range inst.Reference {
		v.Reference = append(v.Reference, itemView(item.Token))
	}
	for _, z := range inst.Zones {
		zv := ZoneView{ID: z.ID, Label: z.Label}
		if z.Anchor != nil {
			anchor := itemView(z.Anchor.Token)
			zv.Anchor = &anchor
		}
		for _, token := range inst.Placed[z.ID] {
			zv.Placed = append(zv.Placed, itemView(token))
		}
		v.Zones = append(v.Zones, zv)
	}
	return v
}

// Skeleton returns a copy of v with the instance id and every item token replaced by fixed placeholders.
// Rendering it gives the part of the page that is the same for every instance of the kind.
func (v View) Skeleton() View {
	const placeholder = "token"
	item := func(iv ItemView) ItemView {
		return ItemView{Token: placeholder, ImageURL: strings.ReplaceAll(iv.ImageURL, iv.Token, placeholder)}
	}
	items := func(ivs []ItemView) []ItemView {
		if ivs == nil {
			return nil
		}
		out := make([]ItemView, len(ivs))
		for i, iv := range ivs {
			out[i] = item(iv)
		}
		return out
	}

	s := v
	s.InstanceID = "instance"
	s.Items = items(v.Items)
	s.Reference = items(v.Reference)
	s.Zones = make([]ZoneView, len(v.Zones))
	for i, z := range v.Zones {
		s.Zones[i] = ZoneView{ID: z.ID, Label: z.Label, Placed: items(z.Placed)}
		if z.Anchor != nil {
			anchor := item(*z.Anchor)
			s.Zones[i].Anchor = &anchor
		}
	}
	return s
}
