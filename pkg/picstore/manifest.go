package picstore

import(
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

/* Example picture.yaml ...

title: Flowers
allfocused: allfocused.jpg
frame: raw.hdr

refocus:
  depthlut:
    width: 2
    height: 2
    values: [-1.5, 0.2, 0.4, 3.0]
  images:
    - {id: "0", file: refocus-00.jpg, depth: -1.5}
    - {id: "1", file: refocus-01.jpg, depth: 0.3}
    - {id: "2", file: refocus-02.jpg, depth: 3.0}

parallax:
  images:
    - {id: nw, file: parallax-nw.jpg, x: 0.0, y: 0.0}
    - {id: se, file: parallax-se.jpg, x: 1.0, y: 1.0}

*/

type Manifest struct {
	Title       string
	AllFocused  string            `yaml:"allfocused,omitempty"`
	Frame       string            `yaml:",omitempty"`
	Refocus     *RefocusManifest  `yaml:",omitempty"`
	Parallax    *ParallaxManifest `yaml:",omitempty"`
}

type RefocusManifest struct {
	DepthLUT  *DepthLUT     `yaml:"depthlut,omitempty"`
	DepthMap  *DepthMap     `yaml:"depthmap,omitempty"`
	Images    []RefocusImage
}

type RefocusImage struct {
	ID     string
	File   string
	Depth  float64  // lambda, in the picture's depth units
}

type ParallaxManifest struct {
	Images []ParallaxImage
}

type ParallaxImage struct {
	ID     string
	File   string
	X, Y   float64  // normalized viewpoint
}

// DepthLUT is a depth lookup table given inline, row by row.
type DepthLUT struct {
	Width, Height int
	Values        []float64
}

// DepthMap is a depth lookup table given as a greyscale image, black
// mapping to Min and white to Max.
type DepthMap struct {
	File      string
	Min, Max  float64
}

func newManifestFromYaml(b []byte) (Manifest, error) {
	m := Manifest{}
	err := yaml.UnmarshalStrict(b, &m)
	return m, err
}

func (m Manifest)AsYaml() string {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Sprintf("# can't marshal manifest yaml: %v\n", err)
	}
	return string(b)
}

func loadManifest(filename string) (Manifest, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest read %s: %v", filename, err)
	}

	m, err := newManifestFromYaml(contents)
	if err != nil {
		return m, fmt.Errorf("manifest parse %s: %v", filename, err)
	}
	return m, nil
}

// WriteManifest is mostly for building test bundles.
func WriteManifest(m Manifest, filename string) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest marshal: %v", err)
	}
	return ioutil.WriteFile(filename, b, 0644)
}
