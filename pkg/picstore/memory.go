package picstore

import(
	"fmt"
	"image"
	"sync"

	"github.com/abworrall/lfp-viewer/pkg/emath"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

// Memory is a picture assembled in memory. It counts decodes, which makes
// it handy for checking what the viewer asks for.
type Memory struct {
	mu      sync.Mutex
	title   string
	stacks  map[lfp.Group][]lfp.Member
	images  map[lfp.ImageKey]image.Image
	fail    map[lfp.ImageKey]error
	decodes map[lfp.ImageKey]int
	depth   *emath.FloatGrid
}

func NewMemory(title string) *Memory {
	return &Memory{
		title:   title,
		stacks:  map[lfp.Group][]lfp.Member{},
		images:  map[lfp.ImageKey]image.Image{},
		fail:    map[lfp.ImageKey]error{},
		decodes: map[lfp.ImageKey]int{},
	}
}

// DeclareStack makes the picture carry a stack, even with no members.
func (m *Memory)DeclareStack(g lfp.Group) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.stacks[g]; !exists {
		m.stacks[g] = []lfp.Member{}
	}
	return m
}

// AddMember appends to a stack; the image may be nil for a member that
// can't be decoded.
func (m *Memory)AddMember(g lfp.Group, id lfp.ID, coord lfp.Coord, img image.Image) *Memory {
	m.DeclareStack(g)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stacks[g] = append(m.stacks[g], lfp.Member{ID: id, Coord: coord})
	if img != nil {
		m.images[lfp.ImageKey{Group: g, ID: id}] = img
	}
	return m
}

// SetImage sets a singleton: the all-focused image or the frame.
func (m *Memory)SetImage(g lfp.Group, img image.Image) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[lfp.ImageKey{Group: g}] = img
	return m
}

func (m *Memory)SetDepthGrid(fg emath.FloatGrid) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth = &fg
	return m
}

// Fail makes decoding an image return `err`.
func (m *Memory)Fail(g lfp.Group, id lfp.ID, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[lfp.ImageKey{Group: g, ID: id}] = err
	return m
}

func (m *Memory)Decodes(g lfp.Group, id lfp.ID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decodes[lfp.ImageKey{Group: g, ID: id}]
}

func (m *Memory)TotalDecodes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.decodes {
		n += v
	}
	return n
}

func (m *Memory)Title() string { return m.title }

func (m *Memory)HasGroup(g lfp.Group) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.IsStack() {
		_, exists := m.stacks[g]
		return exists
	}
	_, exists := m.images[lfp.ImageKey{Group: g}]
	return exists
}

func (m *Memory)Stack(g lfp.Group) ([]lfp.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, exists := m.stacks[g]
	if !exists {
		return nil, fmt.Errorf("picture %q has no %s stack", m.title, g)
	}
	out := make([]lfp.Member, len(members))
	copy(out, members)
	return out, nil
}

func (m *Memory)Decode(g lfp.Group, id lfp.ID) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := lfp.ImageKey{Group: g, ID: id}
	m.decodes[key]++
	if err, exists := m.fail[key]; exists {
		return nil, &lfp.DecodeError{Key: key, Err: err}
	}
	img, exists := m.images[key]
	if !exists {
		return nil, &lfp.DecodeError{Key: key, Err: fmt.Errorf("no such image")}
	}
	return img, nil
}

func (m *Memory)DepthAt(p lfp.Point) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth == nil {
		return 0, false
	}
	return m.depth.Sample(p.X, p.Y)
}
