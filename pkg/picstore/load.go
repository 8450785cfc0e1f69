package picstore

import(
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

const ManifestName = "picture.yaml"

// Load opens a picture bundle: either a directory holding picture.yaml, or
// the path of the manifest itself. Image files are checked but not decoded.
// Any failure is a FileLoadError.
func Load(path string) (*Picture, error) {
	p, err := load(path)
	if err != nil {
		return nil, &lfp.FileLoadError{Path: path, Err: err}
	}
	return p, nil
}

func load(path string) (*Picture, error) {
	item, err := os.Stat(path)

	switch {
	case err != nil:
		return nil, err

	case item.IsDir():
		path = filepath.Join(path, ManifestName)

	default:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("'%s' is not a picture manifest (want a dir, or %s)", path, ManifestName)
		}
	}

	m, err := loadManifest(path)
	if err != nil {
		return nil, err
	}
	return newPicture(path, m)
}

func newPicture(path string, m Manifest) (*Picture, error) {
	p := &Picture{
		Path:     path,
		dir:      filepath.Dir(path),
		manifest: m,
		stacks:   map[lfp.Group][]lfp.Member{},
		files:    map[lfp.ImageKey]string{},
	}
	if p.manifest.Title == "" {
		p.manifest.Title = filepath.Base(p.dir)
	}

	if m.AllFocused != "" {
		if err := p.addFile(lfp.ImageKey{Group: lfp.AllFocused}, m.AllFocused); err != nil {
			return nil, err
		}
	}
	if m.Frame != "" {
		if err := p.addFile(lfp.ImageKey{Group: lfp.Frame}, m.Frame); err != nil {
			return nil, err
		}
	}

	if m.Refocus != nil {
		p.stacks[lfp.Refocus] = []lfp.Member{}
		for i, ri := range m.Refocus.Images {
			if err := p.addMember(lfp.Refocus, i, ri.ID, ri.File, lfp.Coord{ri.Depth}); err != nil {
				return nil, err
			}
		}
		if err := p.loadDepth(m.Refocus); err != nil {
			return nil, fmt.Errorf("refocus depth table: %v", err)
		}
	}

	if m.Parallax != nil {
		p.stacks[lfp.Parallax] = []lfp.Member{}
		for i, pi := range m.Parallax.Images {
			if err := p.addMember(lfp.Parallax, i, pi.ID, pi.File, lfp.Coord{pi.X, pi.Y}); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// Members without an id are named by their position in the stack.
func (p *Picture)addMember(g lfp.Group, i int, id, file string, coord lfp.Coord) error {
	if id == "" {
		id = fmt.Sprintf("%d", i)
	}
	key := lfp.ImageKey{Group: g, ID: lfp.ID(id)}
	if _, exists := p.files[key]; exists {
		return fmt.Errorf("%s image %d: duplicate id '%s'", g, i, id)
	}
	if err := p.addFile(key, file); err != nil {
		return fmt.Errorf("%s image %d: %v", g, i, err)
	}
	p.stacks[g] = append(p.stacks[g], lfp.Member{ID: key.ID, Coord: coord})
	return nil
}

func (p *Picture)addFile(key lfp.ImageKey, file string) error {
	if file == "" {
		return fmt.Errorf("%s: no file given", key)
	}
	filename := p.resolve(file)

	if _, err := GetCapabilities().ForFile(filename); err != nil {
		return fmt.Errorf("%s: %v", key, err)
	} else if item, err := os.Stat(filename); err != nil {
		return fmt.Errorf("%s: %v", key, err)
	} else if item.IsDir() {
		return fmt.Errorf("%s: '%s' is a directory", key, filename)
	}

	p.files[key] = filename
	return nil
}

func (p *Picture)resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(p.dir, file)
}

func (p *Picture)loadDepth(rm *RefocusManifest) error {
	switch {
	case rm.DepthLUT != nil && rm.DepthMap != nil:
		return fmt.Errorf("give a depthlut or a depthmap, not both")

	case rm.DepthLUT != nil:
		fg, err := emath.NewFloatGridFromValues(rm.DepthLUT.Width, rm.DepthLUT.Height, rm.DepthLUT.Values)
		if err != nil {
			return err
		}
		p.depth = &fg

	case rm.DepthMap != nil:
		img, _, err := decodeFile(p.resolve(rm.DepthMap.File))
		if err != nil {
			return err
		}
		fg := emath.NewFloatGridFromImage(img, rm.DepthMap.Min, rm.DepthMap.Max)
		p.depth = &fg
	}

	return nil
}
