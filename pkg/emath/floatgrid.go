package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// A FloatGrid is a grid of floats, stored row by row. Pictures use it to
// hold their depth lookup table.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

// NewFloatGridFromValues wraps a row-major list of values; len(values) must
// be w*h.
func NewFloatGridFromValues(w, h int, values []float64) (FloatGrid, error) {
	if w <= 0 || h <= 0 {
		return FloatGrid{}, fmt.Errorf("grid size %dx%d is empty", w, h)
	} else if len(values) != w*h {
		return FloatGrid{}, fmt.Errorf("grid %dx%d wants %d values, got %d", w, h, w*h, len(values))
	}
	fg := NewFloatGrid(w, h)
	copy(fg.values, values)
	return fg, nil
}

// NewFloatGridFromImage reads the luminance of each pixel, and maps it
// linearly from [0,0xFFFF] onto [min,max].
func NewFloatGridFromImage(img image.Image, min, max float64) FloatGrid {
	b := img.Bounds()
	fg := NewFloatGrid(b.Dx(), b.Dy())
	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			gray := color.Gray16Model.Convert(img.At(x + b.Min.X, y + b.Min.Y)).(color.Gray16)
			fg.Set(x, y, min + (max - min) * float64(gray.Y) / float64(0xFFFF))
		}
	}
	return fg
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Empty() bool             { return fg.stride == 0 || len(fg.values) == 0 }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Sample looks up the cell under a normalized position; positions off the
// grid read the nearest edge cell.
func (fg *FloatGrid)Sample(xf, yf float64) (float64, bool) {
	if fg.Empty() {
		return 0, false
	}
	x := ClampInt(int(math.Floor(xf * float64(fg.Dx()))), 0, fg.Dx()-1)
	y := ClampInt(int(math.Floor(yf * float64(fg.Dy()))), 0, fg.Dy()-1)
	return fg.Get(x, y), true
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0  * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg renders a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision. Each cell becomes a scale x scale block.
func (fg *FloatGrid)ToImg(title string, scale int) image.Image {
	if scale < 1 {
		scale = 1
	}
	min, max := fg.MinMax()
	span := max - min
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx() * scale, fg.Dy() * scale}})
	for x:=0; x<img.Bounds().Dx(); x++ {
		for y:=0; y<img.Bounds().Dy(); y++ {
			lum := fg.Get(x/scale, y/scale)
			gray := GammaExpand_F64 ((lum - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0.2,0.2)
	dc.DrawString(title, 8, 16)
	return dc.Image()
}
