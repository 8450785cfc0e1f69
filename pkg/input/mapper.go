// Package input turns toolkit pointer and resize events into the normalized
// terms the viewer works in.
package input

import(
	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

// A Mapper normalizes raw pointer positions against the surface size. With
// Clamp set, drags that leave the surface pin to its edge; otherwise the
// point is passed through, and the stack index extrapolates.
type Mapper struct {
	Clamp bool
}

func NewMapper(clamp bool) Mapper { return Mapper{Clamp: clamp} }

// Normalize divides each raw coordinate by the surface dimension. It fails
// only on an empty surface.
func (m Mapper)Normalize(x, y float64, surface lfp.Size) (lfp.Point, bool) {
	if surface.Empty() {
		return lfp.Point{}, false
	}
	p := lfp.Point{
		X: x / float64(surface.W),
		Y: y / float64(surface.H),
	}
	if m.Clamp {
		p.X, p.Y = emath.Clamp01(p.X), emath.Clamp01(p.Y)
	}
	return p, true
}

// DisplaySize maps a window size to the size pictures are shown at. Light
// field pictures are square, so by default the largest square that fits is
// used. Empty windows (e.g. while minimized) have no display size.
func DisplaySize(w, h int, square bool) (lfp.Size, bool) {
	if w <= 0 || h <= 0 {
		return lfp.Size{}, false
	}
	if square {
		if w < h {
			h = w
		} else {
			w = h
		}
	}
	return lfp.Size{W: w, H: h}, true
}
