// Package picstore provides light-field pictures to the viewer: bundles
// described by a YAML manifest next to their image files, and pictures held
// in memory.
package picstore

import(
	"fmt"
	"image"

	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

// A Picture is a loaded bundle. Images are decoded from disk on each Decode;
// the render cache is what keeps them.
type Picture struct {
	Path      string  // the manifest
	dir       string
	manifest  Manifest

	stacks    map[lfp.Group][]lfp.Member
	files     map[lfp.ImageKey]string
	depth     *emath.FloatGrid
}

func (p *Picture)String() string {
	str := fmt.Sprintf("Picture %q [\n", p.Title())
	for _, g := range lfp.Groups {
		if !p.HasGroup(g) {
			continue
		}
		if g.IsStack() {
			str += fmt.Sprintf("  %s: %d members\n", g, len(p.stacks[g]))
		} else {
			str += fmt.Sprintf("  %s: %s\n", g, p.files[lfp.ImageKey{Group: g}])
		}
	}
	if p.depth != nil {
		str += fmt.Sprintf("  depth: %s\n", p.depth.Stats())
	}
	return str + "]\n"
}

func (p *Picture)Title() string        { return p.manifest.Title }
func (p *Picture)Manifest() Manifest   { return p.manifest }

func (p *Picture)HasGroup(g lfp.Group) bool {
	if g.IsStack() {
		_, exists := p.stacks[g]
		return exists
	}
	_, exists := p.files[lfp.ImageKey{Group: g}]
	return exists
}

func (p *Picture)Stack(g lfp.Group) ([]lfp.Member, error) {
	members, exists := p.stacks[g]
	if !exists {
		return nil, fmt.Errorf("picture %q has no %s stack", p.Title(), g)
	}
	out := make([]lfp.Member, len(members))
	copy(out, members)
	return out, nil
}

func (p *Picture)Decode(g lfp.Group, id lfp.ID) (image.Image, error) {
	key := lfp.ImageKey{Group: g, ID: id}
	filename, exists := p.files[key]
	if !exists {
		return nil, &lfp.DecodeError{Key: key, Err: fmt.Errorf("no such image")}
	}

	img, f, err := decodeFile(filename)
	if err != nil {
		return nil, &lfp.DecodeError{Key: key, Err: err}
	}
	if g == lfp.Frame {
		img = developFrame(img, f)
	}
	return img, nil
}

// DepthAt reads the depth lookup table, if the picture has one.
func (p *Picture)DepthAt(pt lfp.Point) (float64, bool) {
	if p.depth == nil {
		return 0, false
	}
	return p.depth.Sample(pt.X, pt.Y)
}

// DepthGrid returns a copy of the depth lookup table.
func (p *Picture)DepthGrid() (*emath.FloatGrid, bool) {
	if p.depth == nil {
		return nil, false
	}
	return p.depth.Copy(), true
}

// File returns the image file behind a key.
func (p *Picture)File(key lfp.ImageKey) (string, bool) {
	f, exists := p.files[key]
	return f, exists
}
