package picstore

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

func solid(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeBundle(t *testing.T, m Manifest) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"r0.png", "r1.png", "p0.png", "p1.png", "all.png"} {
		writePNG(t, dir, name, solid(color.RGBA{0x40, 0x80, 0xc0, 0xff}, 6, 6))
	}
	require.NoError(t, WriteManifest(m, filepath.Join(dir, ManifestName)))
	return dir
}

func fullManifest() Manifest {
	return Manifest{
		Title:      "flowers",
		AllFocused: "all.png",
		Refocus: &RefocusManifest{
			DepthLUT: &DepthLUT{Width: 2, Height: 1, Values: []float64{-1, 2}},
			Images: []RefocusImage{
				{ID: "near", File: "r0.png", Depth: -1},
				{File: "r1.png", Depth: 2},
			},
		},
		Parallax: &ParallaxManifest{
			Images: []ParallaxImage{
				{ID: "A", File: "p0.png", X: 0, Y: 0},
				{ID: "B", File: "p1.png", X: 1, Y: 1},
			},
		},
	}
}

func TestLoadBundle(t *testing.T) {
	dir := writeBundle(t, fullManifest())

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "flowers", p.Title())
	assert.True(t, p.HasGroup(lfp.Refocus))
	assert.True(t, p.HasGroup(lfp.Parallax))
	assert.True(t, p.HasGroup(lfp.AllFocused))
	assert.False(t, p.HasGroup(lfp.Frame))

	refocus, err := p.Stack(lfp.Refocus)
	require.NoError(t, err)
	assert.Equal(t, []lfp.Member{{ID: "near", Coord: lfp.Coord{-1}}, {ID: "1", Coord: lfp.Coord{2}}}, refocus)

	parallax, err := p.Stack(lfp.Parallax)
	require.NoError(t, err)
	assert.Equal(t, lfp.Coord{1, 1}, parallax[1].Coord)

	_, err = p.Stack(lfp.Frame)
	assert.Error(t, err)

	img, err := p.Decode(lfp.Refocus, "near")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 6), img.Bounds())

	_, err = p.Decode(lfp.Refocus, "missing")
	var de *lfp.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, lfp.ImageKey{Group: lfp.Refocus, ID: "missing"}, de.Key)

	d, ok := p.DepthAt(lfp.Point{X: 0.9, Y: 0.5})
	assert.True(t, ok)
	assert.Equal(t, 2.0, d)

	assert.Contains(t, p.String(), "refocus: 2 members")
}

func TestLoadManifestPath(t *testing.T) {
	dir := writeBundle(t, fullManifest())

	p, err := Load(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t, "flowers", p.Title())
}

func TestLoadDepthMap(t *testing.T) {
	m := fullManifest()
	m.Refocus.DepthLUT = nil
	m.Refocus.DepthMap = &DepthMap{File: "depth.png", Min: 0, Max: 10}
	dir := writeBundle(t, m)

	depth := image.NewGray(image.Rect(0, 0, 2, 1))
	depth.SetGray(0, 0, color.Gray{Y: 0})
	depth.SetGray(1, 0, color.Gray{Y: 0xff})
	writePNG(t, dir, "depth.png", depth)

	p, err := Load(dir)
	require.NoError(t, err)

	d, ok := p.DepthAt(lfp.Point{X: 0.1, Y: 0.1})
	assert.True(t, ok)
	assert.InDelta(t, 0.0, d, 1e-6)

	d, _ = p.DepthAt(lfp.Point{X: 0.9, Y: 0.1})
	assert.InDelta(t, 10.0, d, 1e-6)

	grid, ok := p.DepthGrid()
	require.True(t, ok)
	assert.Equal(t, 2, grid.Dx())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"missing file", func(m *Manifest) { m.AllFocused = "nope.png" }},
		{"unknown format", func(m *Manifest) { m.Parallax.Images[0].File = "p0.xcf" }},
		{"duplicate id", func(m *Manifest) { m.Parallax.Images[1].ID = "A" }},
		{"bad depth lut", func(m *Manifest) { m.Refocus.DepthLUT.Values = []float64{1} }},
		{"two depth tables", func(m *Manifest) { m.Refocus.DepthMap = &DepthMap{File: "r0.png"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fullManifest()
			tt.mutate(&m)
			dir := writeBundle(t, m)

			_, err := Load(dir)
			require.Error(t, err)
			var fle *lfp.FileLoadError
			assert.True(t, errors.As(err, &fle))
			assert.Equal(t, dir, fle.Path)
		})
	}
}

func TestLoadRejectsBadPaths(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nothing-here"))
	assert.Error(t, err)

	dir := t.TempDir()
	writePNG(t, dir, "x.png", solid(color.White, 1, 1))
	_, err = Load(filepath.Join(dir, "x.png"))
	assert.Error(t, err, "not a manifest")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("title: x\nbogus: 1\n"), 0644))
	_, err = Load(dir)
	assert.Error(t, err, "unknown keys are rejected")
}

func TestHDRFrameIsDeveloped(t *testing.T) {
	dir := writeBundle(t, Manifest{Title: "raw", Frame: "raw.hdr"})
	f, err := os.Create(filepath.Join(dir, "raw.hdr"))
	require.NoError(t, err)
	require.NoError(t, encodeRGBE(f, solid(color.RGBA{0x20, 0x40, 0x80, 0xff}, 4, 3)))
	require.NoError(t, f.Close())

	p, err := Load(dir)
	require.NoError(t, err)
	require.True(t, p.HasGroup(lfp.Frame))

	img, err := p.Decode(lfp.Frame, "")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	_, isRGBA64 := img.(*image.RGBA64)
	assert.True(t, isRGBA64)
}

func TestCapabilities(t *testing.T) {
	caps := GetCapabilities()
	for _, f := range []Format{JPEG, PNG, TIFF, BMP, HDR} {
		assert.True(t, caps[f].Available, "%s: %v", f, caps[f].Err)
		assert.True(t, caps[f].Probed, f)
	}
	assert.True(t, caps[WebP].Available)
	assert.False(t, caps[WebP].Probed)

	f, err := caps.ForFile("a/B.JPG")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)

	_, err = caps.ForFile("a/b.gif")
	assert.Error(t, err)
	assert.Len(t, caps.Formats(), 6)
}

func TestCaptureInfoWithoutExif(t *testing.T) {
	dir := writeBundle(t, fullManifest())
	p, err := Load(dir)
	require.NoError(t, err)

	_, err = p.CaptureInfo()
	assert.Error(t, err, "png files carry no exif")
}

func TestMemory(t *testing.T) {
	m := NewMemory("mem").
		AddMember(lfp.Refocus, "1", lfp.Coord{0}, solid(color.Black, 2, 2)).
		AddMember(lfp.Refocus, "2", lfp.Coord{1}, nil).
		DeclareStack(lfp.Parallax).
		SetImage(lfp.AllFocused, solid(color.White, 2, 2))

	assert.True(t, m.HasGroup(lfp.Refocus))
	assert.True(t, m.HasGroup(lfp.Parallax))
	assert.True(t, m.HasGroup(lfp.AllFocused))
	assert.False(t, m.HasGroup(lfp.Frame))

	members, err := m.Stack(lfp.Parallax)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = m.Decode(lfp.Refocus, "1")
	require.NoError(t, err)
	_, err = m.Decode(lfp.Refocus, "2")
	assert.Error(t, err)
	assert.Equal(t, 1, m.Decodes(lfp.Refocus, "1"))
	assert.Equal(t, 2, m.TotalDecodes())

	assert.Equal(t, []lfp.ImageKey{
		{Group: lfp.Refocus, ID: "1"},
		{Group: lfp.Refocus, ID: "2"},
		{Group: lfp.AllFocused},
	}, lfp.Keys(m))
}
