package stackindex

import(
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

// A node is a member as the k-d tree sees it; `order` is its position in the stack.
type node struct {
	order int
	coord lfp.Coord
}

func (n node)Compare(c kdtree.Comparable, d kdtree.Dim) float64 { return n.coord[d] - c.(node).coord[d] }
func (n node)Dims() int                                         { return len(n.coord) }
func (n node)Distance(c kdtree.Comparable) float64              { return emath.Dist2(n.coord, c.(node).coord) }

type nodes []node

func (ns nodes)Index(i int) kdtree.Comparable         { return ns[i] }
func (ns nodes)Len() int                              { return len(ns) }
func (ns nodes)Pivot(d kdtree.Dim) int                { return plane{Dim: d, nodes: ns}.Pivot() }
func (ns nodes)Slice(start, end int) kdtree.Interface { return ns[start:end] }

// plane sorts nodes along one dimension while the tree is built.
type plane struct {
	kdtree.Dim
	nodes
}

func (p plane)Less(i, j int) bool { return p.nodes[i].coord[p.Dim] < p.nodes[j].coord[p.Dim] }
func (p plane)Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane)Swap(i, j int)      { p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i] }

func (p plane)Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}

func newTree(members []lfp.Member) *kdtree.Tree {
	ns := make(nodes, len(members))
	for i, m := range members {
		ns[i] = node{order: i, coord: m.Coord}
	}
	return kdtree.New(ns, false)
}

// treeNearest finds the nearest distance, then collects every node at that
// distance so the earliest member wins, as it does for a scan.
func (ix *Index)treeNearest(q lfp.Coord) int {
	qn := node{order: -1, coord: q}
	_, dist := ix.tree.Nearest(qn)

	keeper := kdtree.NewDistKeeper(dist)
	ix.tree.NearestSet(keeper, qn)

	best := -1
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil {
			continue
		}
		if n := cd.Comparable.(node); best < 0 || n.order < best {
			best = n.order
		}
	}
	if best < 0 {
		return ix.scan(q)
	}
	return best
}
