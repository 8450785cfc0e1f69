package picstore

import(
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"

	"github.com/abworrall/lfp-viewer/pkg/emath"
)

// developFrame makes a raw frame displayable. Radiance frames hold linear
// sensor values, so they are tonemapped linearly onto [0,1] and then
// gamma expanded for sRGB; anything else is already display ready.
func developFrame(img image.Image, f Format) image.Image {
	hi, ok := img.(hdr.Image)
	if f != HDR || !ok {
		return img
	}

	ldr := tmo.NewLinear(hi).Perform()

	b := ldr.Bounds()
	out := image.NewRGBA64(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := ldr.At(x, y).RGBA()
			out.SetRGBA64(x, y, color.RGBA64{
				R: gammaExpand16(r),
				G: gammaExpand16(g),
				B: gammaExpand16(bl),
				A: 0xFFFF,
			})
		}
	}
	return out
}

func gammaExpand16(v uint32) uint16 {
	f := emath.Clamp01(float64(v) / float64(0xFFFF))
	return uint16(emath.GammaExpand_F64(f) * float64(0xFFFF))
}
