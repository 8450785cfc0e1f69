package lfp

import (
	"fmt"
	"image"
	"strings"
)

// ID identifies an image within its group. It is opaque to the viewer;
// singletons use the empty ID.
type ID string

// A Coord locates a stack member: [depth] for refocus members, [x, y] for
// parallax members.
type Coord []float64

func (c Coord)String() string {
	strs := make([]string, len(c))
	for i, f := range c {
		strs[i] = fmt.Sprintf("%.3f", f)
	}
	return "(" + strings.Join(strs, ",") + ")"
}

// A Member is one entry of a stack, in the order the picture reported it.
type Member struct {
	ID    ID
	Coord Coord
}

func (m Member)String() string { return fmt.Sprintf("%s@%s", m.ID, m.Coord) }

// A Point is a normalized position over the display surface; a point on the
// surface is within [0,1]x[0,1].
type Point struct {
	X, Y float64
}

var Center = Point{0.5, 0.5}

func (p Point)String() string { return fmt.Sprintf("(%.3f,%.3f)", p.X, p.Y) }

// Size is a display size in pixels.
type Size struct {
	W, H int
}

func (s Size)Empty() bool          { return s.W <= 0 || s.H <= 0 }
func (s Size)String() string       { return fmt.Sprintf("%dx%d", s.W, s.H) }
func (s Size)Rect() image.Rectangle { return image.Rect(0, 0, s.W, s.H) }

// ImageKey is the stable identity of a decoded image.
type ImageKey struct {
	Group Group
	ID    ID
}

func (k ImageKey)String() string {
	if k.ID == "" {
		return k.Group.String()
	}
	return fmt.Sprintf("%s/%s", k.Group, k.ID)
}
