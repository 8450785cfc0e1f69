// Package stackindex answers nearest-member queries over a refocus or
// parallax stack.
package stackindex

import(
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

var(
	ErrCoordDims   = errors.New("coordinate does not match the stack's dimensions")
	ErrDuplicateID = errors.New("duplicate member id")
)

// A Projector picks the depth that a 1-D stack is queried with.
type Projector func(p lfp.Point) float64

// ProjectX uses the horizontal position as the depth.
func ProjectX(p lfp.Point) float64 { return p.X }

// An Index is built once per stack. Members keep the order the picture
// reported them in; the earliest member wins a tie.
type Index struct {
	group      lfp.Group
	dims       int
	members    []lfp.Member
	project    Projector
	kdMin      int
	tree       *kdtree.Tree
}

type Option func(*Index)

func WithProjector(f Projector) Option {
	return func(ix *Index) {
		if f != nil {
			ix.project = f
		}
	}
}

// WithDepthMapper resolves 1-D queries through the picture's depth lookup
// table, falling back to the horizontal position where the table has no
// answer.
func WithDepthMapper(dm lfp.DepthMapper) Option {
	return WithProjector(func(p lfp.Point) float64 {
		if d, ok := dm.DepthAt(p); ok {
			return d
		}
		return p.X
	})
}

// WithKDTree indexes 2-D stacks of at least `min` members with a k-d tree;
// smaller stacks, and all 1-D stacks, are scanned. Zero disables the tree.
func WithKDTree(min int) Option {
	return func(ix *Index) { ix.kdMin = min }
}

func New(g lfp.Group, members []lfp.Member, opts ...Option) (*Index, error) {
	ix := &Index{
		group:   g,
		dims:    g.Dims(),
		project: ProjectX,
	}
	for _, opt := range opts {
		opt(ix)
	}

	if ix.dims == 0 {
		return nil, fmt.Errorf("index %s: not a stack", g)
	}

	seen := map[lfp.ID]bool{}
	ix.members = make([]lfp.Member, 0, len(members))
	for i, m := range members {
		if len(m.Coord) != ix.dims {
			return nil, fmt.Errorf("index %s, member %d (%s%s): %w", g, i, m.ID, m.Coord, ErrCoordDims)
		}
		for _, f := range m.Coord {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("index %s, member %d (%s): coordinate %s is not finite", g, i, m.ID, m.Coord)
			}
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("index %s, member %d (%s): %w", g, i, m.ID, ErrDuplicateID)
		}
		seen[m.ID] = true

		coord := make(lfp.Coord, len(m.Coord))
		copy(coord, m.Coord)
		ix.members = append(ix.members, lfp.Member{ID: m.ID, Coord: coord})
	}

	if ix.dims == 2 && ix.kdMin > 0 && len(ix.members) >= ix.kdMin {
		ix.tree = newTree(ix.members)
	}

	return ix, nil
}

func (ix *Index)Group() lfp.Group { return ix.group }
func (ix *Index)Len() int         { return len(ix.members) }
func (ix *Index)UsesTree() bool   { return ix.tree != nil }

// Members returns a copy of the members, in insertion order.
func (ix *Index)Members() []lfp.Member {
	out := make([]lfp.Member, len(ix.members))
	copy(out, ix.members)
	return out
}

// Query turns a normalized point into the coordinate the stack is searched with.
func (ix *Index)Query(p lfp.Point) lfp.Coord {
	if ix.dims == 1 {
		return lfp.Coord{ix.project(p)}
	}
	return lfp.Coord{p.X, p.Y}
}

// Nearest returns the member closest to `p`: by absolute depth difference
// for refocus stacks, by euclidean distance for parallax stacks.
func (ix *Index)Nearest(p lfp.Point) (lfp.ID, error) {
	if len(ix.members) == 0 {
		return "", &lfp.EmptyStackError{Group: ix.group}
	}

	q := ix.Query(p)
	if ix.tree != nil {
		return ix.members[ix.treeNearest(q)].ID, nil
	}
	return ix.members[ix.scan(q)].ID, nil
}

func (ix *Index)scan(q lfp.Coord) int {
	best, bestDist := 0, math.Inf(1)
	for i, m := range ix.members {
		// Squared distance ranks the same as the distance, on both metrics
		if d := emath.Dist2(m.Coord, q); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
