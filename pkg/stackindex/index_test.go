package stackindex

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

func refocusStack() []lfp.Member {
	return []lfp.Member{
		{ID: "1", Coord: lfp.Coord{0.0}},
		{ID: "2", Coord: lfp.Coord{0.5}},
		{ID: "3", Coord: lfp.Coord{1.0}},
	}
}

func TestNearestRefocus(t *testing.T) {
	ix, err := New(lfp.Refocus, refocusStack())
	require.NoError(t, err)

	tests := []struct {
		name  string
		depth float64
		want  lfp.ID
	}{
		{"between", 0.45, "2"},
		{"exact", 0.5, "2"},
		{"low", 0.1, "1"},
		{"high", 0.9, "3"},
		{"extrapolated", 7, "3"},
		{"tie goes to earliest", 0.25, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ix.Nearest(lfp.Point{X: tt.depth, Y: 0.99})
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

type fixedDepth float64

func (d fixedDepth)DepthAt(p lfp.Point) (float64, bool) { return float64(d), true }

type noDepth struct{}

func (noDepth)DepthAt(p lfp.Point) (float64, bool) { return 0, false }

func TestNearestRefocusDepthMapper(t *testing.T) {
	ix, err := New(lfp.Refocus, refocusStack(), WithDepthMapper(fixedDepth(0.95)))
	require.NoError(t, err)

	id, err := ix.Nearest(lfp.Point{X: 0.0, Y: 0.0})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("3"), id)

	ix, err = New(lfp.Refocus, refocusStack(), WithDepthMapper(noDepth{}))
	require.NoError(t, err)

	id, err = ix.Nearest(lfp.Point{X: 0.0, Y: 0.0})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("1"), id, "falls back to the x axis")
}

func TestNearestParallax(t *testing.T) {
	ix, err := New(lfp.Parallax, []lfp.Member{
		{ID: "A", Coord: lfp.Coord{0, 0}},
		{ID: "B", Coord: lfp.Coord{1, 1}},
	})
	require.NoError(t, err)

	id, err := ix.Nearest(lfp.Point{X: 0.2, Y: 0.2})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("A"), id)

	id, err = ix.Nearest(lfp.Point{X: 0.9, Y: 0.9})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("B"), id)

	id, err = ix.Nearest(lfp.Point{X: 0.5, Y: 0.5})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("A"), id, "tie goes to earliest")
}

func TestEmptyStack(t *testing.T) {
	ix, err := New(lfp.Parallax, nil)
	require.NoError(t, err)

	_, err = ix.Nearest(lfp.Center)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lfp.ErrEmptyStack))

	var ese *lfp.EmptyStackError
	require.True(t, errors.As(err, &ese))
	assert.Equal(t, lfp.Parallax, ese.Group)
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name    string
		group   lfp.Group
		members []lfp.Member
		wantErr error
	}{
		{"too many dims for refocus", lfp.Refocus, []lfp.Member{{ID: "1", Coord: lfp.Coord{0, 1}}}, ErrCoordDims},
		{"too few dims for parallax", lfp.Parallax, []lfp.Member{{ID: "1", Coord: lfp.Coord{0}}}, ErrCoordDims},
		{"three dims", lfp.Parallax, []lfp.Member{{ID: "1", Coord: lfp.Coord{0, 1, 2}}}, ErrCoordDims},
		{"duplicate id", lfp.Refocus, []lfp.Member{{ID: "1", Coord: lfp.Coord{0}}, {ID: "1", Coord: lfp.Coord{1}}}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.group, tt.members)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := New(lfp.AllFocused, nil)
	assert.Error(t, err, "singletons have no index")
}

func TestMembersAreCopied(t *testing.T) {
	members := refocusStack()
	ix, err := New(lfp.Refocus, members)
	require.NoError(t, err)

	members[0].Coord[0] = 0.5
	id, err := ix.Nearest(lfp.Point{X: 0.1})
	require.NoError(t, err)
	assert.Equal(t, lfp.ID("1"), id)
	assert.Len(t, ix.Members(), 3)
}

// The tree must agree with the scan everywhere, ties included.
func TestTreeMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	members := []lfp.Member{}
	for i := 0; i < 200; i++ {
		// A coarse lattice makes exact ties common
		x := float64(rng.Intn(10)) / 9
		y := float64(rng.Intn(10)) / 9
		members = append(members, lfp.Member{ID: lfp.ID(fmt.Sprintf("p%03d", i)), Coord: lfp.Coord{x, y}})
	}

	scan, err := New(lfp.Parallax, members)
	require.NoError(t, err)
	tree, err := New(lfp.Parallax, members, WithKDTree(16))
	require.NoError(t, err)

	require.False(t, scan.UsesTree())
	require.True(t, tree.UsesTree())

	for i := 0; i < 500; i++ {
		p := lfp.Point{X: rng.Float64()*1.4 - 0.2, Y: rng.Float64()*1.4 - 0.2}
		if i%5 == 0 {
			// land exactly between lattice points
			p = lfp.Point{X: float64(rng.Intn(19)) / 18, Y: float64(rng.Intn(19)) / 18}
		}
		want, err := scan.Nearest(p)
		require.NoError(t, err)
		got, err := tree.Nearest(p)
		require.NoError(t, err)
		require.Equal(t, want, got, "query %s", p)
	}
}

func TestKDTreeThreshold(t *testing.T) {
	ix, err := New(lfp.Parallax, []lfp.Member{{ID: "A", Coord: lfp.Coord{0, 0}}}, WithKDTree(2))
	require.NoError(t, err)
	assert.False(t, ix.UsesTree())

	ix, err = New(lfp.Refocus, refocusStack(), WithKDTree(1))
	require.NoError(t, err)
	assert.False(t, ix.UsesTree(), "depth stacks are always scanned")
}
