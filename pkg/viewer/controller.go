// Package viewer ties pointer and resize events to what a light-field
// picture viewer displays.
package viewer

import(
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/abworrall/lfp-viewer/pkg/input"
	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
	"github.com/abworrall/lfp-viewer/pkg/stackindex"
)

var DefaultSize = lfp.Size{W: 648, H: 648}

// A Controller owns the ViewState, and is the only thing that changes it.
// It expects to be driven from a single event loop: each event is handled
// to completion, decoding and resampling included, before the next one. It
// is not safe for concurrent use.
type Controller struct {
	pic       lfp.Picture
	surface   Surface
	cache     *rcache.Cache
	indexes   map[lfp.Group]*stackindex.Index
	mapper    input.Mapper
	bindings  input.Bindings
	log       zerolog.Logger

	state     State
	view      ViewState
	shown     *rcache.Bitmap
	renders   int

	kernel    draw.Interpolator
	preload   bool
	kdMin     int
	square    bool
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option        { return func(c *Controller) { c.log = l } }
func WithKernel(k draw.Interpolator) Option     { return func(c *Controller) { c.kernel = k } }
func WithPreload(on bool) Option                { return func(c *Controller) { c.preload = on } }
func WithKDTree(min int) Option                 { return func(c *Controller) { c.kdMin = min } }
func WithClamp(on bool) Option                  { return func(c *Controller) { c.mapper.Clamp = on } }
func WithSquare(on bool) Option                 { return func(c *Controller) { c.square = on } }

// WithCache supplies the render cache, instead of the controller making one.
func WithCache(rc *rcache.Cache) Option { return func(c *Controller) { c.cache = rc } }

// New indexes the picture's stacks and shows the initial image: the refocus
// image nearest the center, else the parallax image nearest the center, else
// the raw frame. A picture with none of those is an UnsupportedFileError,
// and no controller is returned.
func New(pic lfp.Picture, surface Surface, size lfp.Size, opts ...Option) (*Controller, error) {
	c := &Controller{
		pic:      pic,
		surface:  surface,
		indexes:  map[lfp.Group]*stackindex.Index{},
		mapper:   input.NewMapper(true),
		log:      log.Logger,
		kernel:   draw.CatmullRom,
		preload:  true,
		kdMin:    32,
		square:   true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if size.Empty() {
		return nil, fmt.Errorf("new viewer: empty initial size %s", size)
	}
	if c.cache == nil {
		c.cache = rcache.New(pic, rcache.WithKernel(c.kernel), rcache.WithLogger(c.log))
	}
	c.bindings = input.DefaultBindings(pic)

	if err := c.buildIndexes(); err != nil {
		return nil, err
	}

	initial, ok := c.initialImage()
	if !ok {
		return nil, &lfp.UnsupportedFileError{Title: Title(pic, "%s")}
	}

	if c.preload {
		c.preloadStacks()
	}

	c.state = Ready
	c.view = ViewState{Size: size, Group: initial.Group, ID: initial.ID}
	c.cache.InvalidateSize(size)
	c.render(initial)

	c.log.Info().Stringer("view", c.view).Msg("viewer ready")
	return c, nil
}

func (c *Controller)buildIndexes() error {
	opts := []stackindex.Option{stackindex.WithKDTree(c.kdMin)}
	if dm, ok := c.pic.(lfp.DepthMapper); ok {
		opts = append(opts, stackindex.WithDepthMapper(dm))
	}

	for _, g := range []lfp.Group{lfp.Refocus, lfp.Parallax} {
		if !c.pic.HasGroup(g) {
			continue
		}
		members, err := c.pic.Stack(g)
		if err != nil {
			return fmt.Errorf("new viewer, %s stack: %w", g, err)
		}
		ix, err := stackindex.New(g, members, opts...)
		if err != nil {
			return fmt.Errorf("new viewer: %w", err)
		}
		c.indexes[g] = ix
	}
	return nil
}

func (c *Controller)initialImage() (lfp.ImageKey, bool) {
	for _, g := range []lfp.Group{lfp.Refocus, lfp.Parallax} {
		ix, exists := c.indexes[g]
		if !exists {
			continue
		}
		if id, err := ix.Nearest(lfp.Center); err == nil {
			return lfp.ImageKey{Group: g, ID: id}, true
		}
		c.log.Debug().Stringer("group", g).Msg("empty stack, skipped for initial view")
	}

	if c.pic.HasGroup(lfp.Frame) {
		return lfp.ImageKey{Group: lfp.Frame}, true
	}
	return lfp.ImageKey{}, false
}

// Raw frames are only decoded if asked for.
func (c *Controller)preloadStacks() {
	keys := []lfp.ImageKey{}
	for _, k := range lfp.Keys(c.pic) {
		if k.Group != lfp.Frame {
			keys = append(keys, k)
		}
	}
	n, err := c.cache.Preload(keys)
	if err != nil {
		c.log.Warn().Err(err).Int("loaded", n).Int("wanted", len(keys)).Msg("preload incomplete")
		return
	}
	c.log.Debug().Int("loaded", n).Msg("preloaded")
}

// render fetches the bitmap for `key` at the active size, and shows it. On
// failure the surface keeps whatever it was showing.
func (c *Controller)render(key lfp.ImageKey) bool {
	bm, err := c.cache.Get(key.Group, key.ID, c.view.Size)
	if err != nil {
		c.logEventError(err, key)
		return false
	}

	c.view.Group, c.view.ID, c.view.Shown = key.Group, key.ID, true
	c.shown = bm
	c.renders++
	c.surface.Show(bm)
	return true
}

func (c *Controller)logEventError(err error, key lfp.ImageKey) {
	var de *lfp.DecodeError
	switch {
	case errors.As(err, &de):
		c.log.Warn().Err(err).Stringer("image", key).Msg("render abandoned")
	case errors.Is(err, lfp.ErrEmptyStack):
		c.log.Debug().Err(err).Stringer("group", key.Group).Msg("pointer ignored")
	default:
		c.log.Error().Err(err).Stringer("image", key).Msg("event failed")
	}
}

// OnResize makes `size` the active display size, dropping the resized
// bitmaps and showing the active image at the new size. Repeating the
// current size does nothing. It reports whether a new bitmap was shown.
func (c *Controller)OnResize(size lfp.Size) bool {
	if c.state != Ready || size.Empty() || size == c.view.Size {
		return false
	}

	c.log.Debug().Stringer("from", c.view.Size).Stringer("to", size).Msg("resize")
	c.view.Size = size
	c.cache.InvalidateSize(size)
	return c.render(c.view.Key())
}

// OnPointer shows the member of `g` nearest the normalized point `p`.
// Groups the picture doesn't carry are ignored, as are empty stacks. If the
// nearest member is already showing, nothing is redrawn. It reports whether
// a new bitmap was shown.
func (c *Controller)OnPointer(g lfp.Group, p lfp.Point) bool {
	if c.state != Ready {
		return false
	}

	key := lfp.ImageKey{Group: g}
	if g.IsStack() {
		ix, exists := c.indexes[g]
		if !exists {
			return false
		}
		id, err := ix.Nearest(p)
		if err != nil {
			c.logEventError(err, key)
			return false
		}
		key.ID = id
	} else if !c.pic.HasGroup(g) {
		return false
	}

	if c.view.Shown && key == c.view.Key() {
		return false
	}
	return c.render(key)
}

// OnClose is terminal; the render cache is released.
func (c *Controller)OnClose() {
	if c.state == Closed {
		return
	}
	c.log.Debug().Stringer("cache", c.cache.Stats()).Msg("viewer closed")
	c.state = Closed
	c.shown = nil
	c.cache.Release()
}

// HandleResize takes a window size from the toolkit.
func (c *Controller)HandleResize(w, h int) bool {
	size, ok := input.DisplaySize(w, h, c.square)
	if !ok {
		return false
	}
	return c.OnResize(size)
}

// HandlePointer takes a raw pointer position, in surface pixels.
func (c *Controller)HandlePointer(g lfp.Group, x, y float64, surface lfp.Size) bool {
	p, ok := c.mapper.Normalize(x, y, surface)
	if !ok {
		return false
	}
	return c.OnPointer(g, p)
}

// HandleButton routes a pointer press or drag through the button bindings,
// against the active display size.
func (c *Controller)HandleButton(btn input.Button, x, y float64) bool {
	g, ok := c.bindings.Group(btn)
	if !ok {
		return false
	}
	return c.HandlePointer(g, x, y, c.view.Size)
}

func (c *Controller)HandleClose() { c.OnClose() }

func (c *Controller)State() State              { return c.state }
func (c *Controller)View() ViewState           { return c.view }
func (c *Controller)Shown() *rcache.Bitmap     { return c.shown }
func (c *Controller)Renders() int              { return c.renders }
func (c *Controller)CacheStats() rcache.Stats  { return c.cache.Stats() }
func (c *Controller)Picture() lfp.Picture      { return c.pic }
func (c *Controller)Bindings() input.Bindings  { return c.bindings }

// Index returns the stack index for a group, if the picture has that stack.
func (c *Controller)Index(g lfp.Group) (*stackindex.Index, bool) {
	ix, exists := c.indexes[g]
	return ix, exists
}

// Title formats the picture's title, for a window.
func Title(pic lfp.Picture, pattern string) string {
	title := "Light-Field Picture"
	if t, ok := pic.(lfp.Titled); ok && t.Title() != "" {
		title = t.Title()
	}
	if pattern == "" {
		return title
	}
	return fmt.Sprintf(pattern, title)
}
