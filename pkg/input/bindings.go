package input

import "github.com/abworrall/lfp-viewer/pkg/lfp"

type Button int

const(
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button)String() string {
	switch b {
	case ButtonLeft:   return "left"
	case ButtonMiddle: return "middle"
	case ButtonRight:  return "right"
	default:           return "none"
	}
}

// Bindings say which group a pointer button drags through.
type Bindings map[Button]lfp.Group

var defaultBindings = Bindings{
	ButtonLeft:   lfp.Refocus,
	ButtonMiddle: lfp.AllFocused,
	ButtonRight:  lfp.Parallax,
}

// DefaultBindings binds left to refocus, middle to the all-focused image and
// right to parallax, leaving out whatever the picture doesn't carry.
func DefaultBindings(pic lfp.Picture) Bindings {
	b := Bindings{}
	for btn, g := range defaultBindings {
		if pic.HasGroup(g) {
			b[btn] = g
		}
	}
	return b
}

func (b Bindings)Group(btn Button) (lfp.Group, bool) {
	g, exists := b[btn]
	return g, exists
}
