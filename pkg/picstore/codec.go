package picstore

import(
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type Format string

const(
	JPEG Format = "jpeg"
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	WebP Format = "webp"
	HDR  Format = "hdr"  // Radiance RGBE, for raw frames
)

var extensions = map[string]Format{
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
	".tif":  TIFF,
	".tiff": TIFF,
	".bmp":  BMP,
	".webp": WebP,
	".hdr":  HDR,
}

type codec struct {
	decode func(io.Reader) (image.Image, error)
	encode func(io.Writer, image.Image) error // nil if we can't make a probe sample
}

var codecs = map[Format]codec{
	JPEG: {jpeg.Decode, func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }},
	PNG:  {png.Decode, png.Encode},
	TIFF: {tiff.Decode, func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }},
	BMP:  {bmp.Decode, bmp.Encode},
	WebP: {webp.Decode, nil},
	HDR:  {rgbe.Decode, encodeRGBE},
}

func encodeRGBE(w io.Writer, m image.Image) error {
	b := m.Bounds()
	img := hdr.NewRGB(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := m.At(x, y).RGBA()
			img.Set(x, y, hdrcolor.RGB{R: float64(r) / 0xFFFF, G: float64(g) / 0xFFFF, B: float64(bb) / 0xFFFF})
		}
	}
	return rgbe.Encode(w, img)
}

// A Capability says whether images of a format can be decoded here.
type Capability struct {
	Format     Format
	Available  bool
	Probed     bool   // a sample was round-tripped, rather than trusting registration
	Err        error
}

type Capabilities map[Format]Capability

var(
	capsOnce sync.Once
	caps     Capabilities
)

// GetCapabilities checks every format once, by decoding a small sample
// where we can make one.
func GetCapabilities() Capabilities {
	capsOnce.Do(func() { caps = probeCapabilities() })
	return caps
}

func probeCapabilities() Capabilities {
	sample := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range sample.Pix {
		sample.Pix[i] = 0xff
	}
	sample.Set(0, 0, color.RGBA{0x10, 0x20, 0x30, 0xff})

	c := Capabilities{}
	for f, cd := range codecs {
		capability := Capability{Format: f, Available: cd.decode != nil}
		if cd.decode != nil && cd.encode != nil {
			capability.Probed = true
			var buf bytes.Buffer
			if err := cd.encode(&buf, sample); err != nil {
				capability.Available, capability.Err = false, fmt.Errorf("probe encode: %v", err)
			} else if img, err := cd.decode(&buf); err != nil {
				capability.Available, capability.Err = false, fmt.Errorf("probe decode: %v", err)
			} else if img.Bounds().Dx() != 2 {
				capability.Available, capability.Err = false, fmt.Errorf("probe decoded to %s", img.Bounds())
			}
		}
		c[f] = capability
	}
	return c
}

func (c Capabilities)Formats() []Format {
	fs := []Format{}
	for f := range c {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
	return fs
}

// ForFile picks the format from the filename's extension, and fails if
// that format isn't available.
func (c Capabilities)ForFile(filename string) (Format, error) {
	f, exists := extensions[strings.ToLower(filepath.Ext(filename))]
	if !exists {
		return "", fmt.Errorf("'%s': unrecognized image extension", filename)
	}
	if capability := c[f]; !capability.Available {
		return f, fmt.Errorf("'%s': no %s decoder available (%v)", filename, f, capability.Err)
	}
	return f, nil
}

func decodeFile(filename string) (image.Image, Format, error) {
	f, err := GetCapabilities().ForFile(filename)
	if err != nil {
		return nil, f, err
	}

	reader, err := os.Open(filename)
	if err != nil {
		return nil, f, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := codecs[f].decode(reader)
	if err != nil {
		return nil, f, fmt.Errorf("%s loading '%s': %w", f, filename, err)
	}
	return img, f, nil
}
