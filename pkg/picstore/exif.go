package picstore

import(
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

// CaptureInfo is what the camera recorded about the shot, as found in the
// EXIF block of one of the picture's images.
type CaptureInfo struct {
	Source       string   // the file it came from
	Make         string
	Model        string
	ISO          int64
	ApertureX10  int64    // f/5.6 is the integer 56.
	ShutterSpeed [2]int64 // 1/500, etc.
	Taken        time.Time
}

func (ci CaptureInfo)String() string {
	s := fmt.Sprintf("%s %s", ci.Make, ci.Model)
	if ci.ApertureX10 > 0 {
		s += fmt.Sprintf(", f/%.1f", float32(ci.ApertureX10)/10.0)
	}
	if ci.ShutterSpeed[1] > 1 {
		s += fmt.Sprintf(", %d/%d", ci.ShutterSpeed[0], ci.ShutterSpeed[1])
	} else if ci.ShutterSpeed[1] == 1 {
		s += fmt.Sprintf(", %ds", ci.ShutterSpeed[0])
	}
	if ci.ISO > 0 {
		s += fmt.Sprintf(", ISO%d", ci.ISO)
	}
	if !ci.Taken.IsZero() {
		s += ", " + ci.Taken.Format(time.RFC3339)
	}
	return s
}

// CaptureInfo reads EXIF from the all-focused image, then the stack images
// in order, returning the first that has any.
func (p *Picture)CaptureInfo() (CaptureInfo, error) {
	keys := []lfp.ImageKey{{Group: lfp.AllFocused}}
	for _, key := range lfp.Keys(p) {
		if key.Group.IsStack() {
			keys = append(keys, key)
		}
	}

	var lastErr error
	for _, key := range keys {
		filename, exists := p.files[key]
		if !exists {
			continue
		}
		ci, err := readCaptureInfo(filename)
		if err == nil {
			return ci, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no images to read")
	}
	return CaptureInfo{}, fmt.Errorf("capture info: %v", lastErr)
}

// Only the fields that are there get filled in; an image with EXIF but no
// exposure details is fine.
func readCaptureInfo(filename string) (CaptureInfo, error) {
	ci := CaptureInfo{Source: filename}

	reader, err := os.Open(filename)
	if err != nil {
		return ci, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ci, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag, err := ex.Get(exif.Make); err == nil {
		ci.Make, _ = tag.StringVal()
	}
	if tag, err := ex.Get(exif.Model); err == nil {
		ci.Model, _ = tag.StringVal()
	}
	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		if val, err := tag.Int64(0); err == nil {
			ci.ISO = val
		}
	}
	if tag, err := ex.Get(exif.FNumber); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			ci.ApertureX10 = num * 10 / denom
		}
	}
	if tag, err := ex.Get(exif.ExposureTime); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil {
			ci.ShutterSpeed = [2]int64{num, denom}
		}
	}
	if t, err := ex.DateTime(); err == nil {
		ci.Taken = t
	}

	return ci, nil
}
