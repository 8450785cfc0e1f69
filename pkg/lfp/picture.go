package lfp

import "image"

// A Picture is a loaded light-field container. It is immutable once loaded;
// the viewer only ever reads from it.
type Picture interface {
	// HasGroup reports whether the picture carries the group at all.
	HasGroup(g Group) bool

	// Stack returns the ordered members of a refocus or parallax stack.
	Stack(g Group) ([]Member, error)

	// Decode produces the full resolution image for a member. Singletons
	// are decoded with the empty ID.
	Decode(g Group, id ID) (image.Image, error)
}

// A DepthMapper is implemented by pictures that carry a depth lookup table;
// it maps a normalized point to the depth of the scene at that point.
type DepthMapper interface {
	DepthAt(p Point) (float64, bool)
}

// Titled is implemented by pictures that know their own name.
type Titled interface {
	Title() string
}

// Keys lists every image the picture can decode, stacks first.
func Keys(pic Picture) []ImageKey {
	keys := []ImageKey{}
	for _, g := range Groups {
		if !pic.HasGroup(g) {
			continue
		}
		if !g.IsStack() {
			keys = append(keys, ImageKey{Group: g})
			continue
		}
		members, err := pic.Stack(g)
		if err != nil {
			continue
		}
		for _, m := range members {
			keys = append(keys, ImageKey{Group: g, ID: m.ID})
		}
	}
	return keys
}
