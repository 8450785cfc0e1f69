package viewer

import(
	"fmt"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
)

type State int

const(
	Uninitialized State = iota
	Ready
	Closed
)

func (s State)String() string {
	switch s {
	case Uninitialized: return "uninitialized"
	case Ready:         return "ready"
	case Closed:        return "closed"
	default:            return fmt.Sprintf("state(%d)", int(s))
	}
}

// ViewState is what the controller is currently showing. Only the
// controller's event handlers change it.
type ViewState struct {
	Size   lfp.Size   // the active display size
	Group  lfp.Group  // the active image
	ID     lfp.ID
	Shown  bool       // false until the active image has rendered once
}

func (vs ViewState)Key() lfp.ImageKey { return lfp.ImageKey{Group: vs.Group, ID: vs.ID} }

func (vs ViewState)String() string {
	str := fmt.Sprintf("View[%s %s", vs.Size, vs.Key())
	if !vs.Shown {
		str += " (not shown)"
	}
	return str + "]"
}

// A Surface is where the toolkit displays bitmaps.
type Surface interface {
	Show(bm *rcache.Bitmap)
}

// SurfaceFunc adapts a plain func to a Surface.
type SurfaceFunc func(bm *rcache.Bitmap)

func (f SurfaceFunc)Show(bm *rcache.Bitmap) { f(bm) }
