// Package rcache decodes picture images once, and memoizes them resized to
// the display size.
//
// There are two levels, never conflated. Decoded images are keyed by
// (group, id) and kept for the life of the cache; a given key is decoded at
// most once, failures included. Resized bitmaps are keyed by (group, id,
// size), and are all dropped whenever the active display size changes.
//
// The viewer drives the cache from a single event loop, but the cache holds
// a lock anyway, so that a resize can't evict entries underneath a lookup
// made from another goroutine (e.g. a preload).
package rcache

import(
	"errors"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

var ErrReleased = errors.New("render cache has been released")

// A Decoder produces full resolution images; lfp.Picture is one.
type Decoder interface {
	Decode(g lfp.Group, id lfp.ID) (image.Image, error)
}

// A Bitmap is a decoded image resampled to a display size. It is shared,
// and must be treated as read-only.
type Bitmap struct {
	Key  lfp.ImageKey
	Size lfp.Size
	*image.RGBA
}

type resizedKey struct {
	lfp.ImageKey
	lfp.Size
}

type decoded struct {
	img image.Image
	err error
}

type Cache struct {
	mu       sync.Mutex
	src      Decoder
	kernel   draw.Interpolator
	log      zerolog.Logger

	size     lfp.Size // the active display size
	decoded  map[lfp.ImageKey]decoded
	resized  map[resizedKey]*Bitmap
	released bool

	stats    Stats
	timings  timings
}

type Option func(*Cache)

func WithKernel(k draw.Interpolator) Option {
	return func(c *Cache) {
		if k != nil {
			c.kernel = k
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(src Decoder, opts ...Option) *Cache {
	c := &Cache{
		src:     src,
		kernel:  draw.CatmullRom,
		log:     log.Logger,
		decoded: map[lfp.ImageKey]decoded{},
		resized: map[resizedKey]*Bitmap{},
		timings: newTimings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the image resized to `size`, decoding and resampling only if
// this is the first request for that (group, id, size).
func (c *Cache)Get(g lfp.Group, id lfp.ID, size lfp.Size) (*Bitmap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := lfp.ImageKey{Group: g, ID: id}
	if c.released {
		return nil, &lfp.DecodeError{Key: key, Err: ErrReleased}
	} else if size.Empty() {
		return nil, &lfp.DecodeError{Key: key, Err: errors.New("empty target size " + size.String())}
	}

	rk := resizedKey{key, size}
	if bm, exists := c.resized[rk]; exists {
		c.stats.Hits++
		return bm, nil
	}

	img, err := c.decodeLocked(key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dst := image.NewRGBA(size.Rect())
	c.kernel.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	record(c.timings.resample, time.Since(start))
	c.stats.Resamples++

	bm := &Bitmap{Key: key, Size: size, RGBA: dst}
	c.resized[rk] = bm
	c.log.Debug().Stringer("image", key).Stringer("size", size).Dur("took", time.Since(start)).Msg("resampled")

	return bm, nil
}

// Decoded returns the full resolution image, decoding it on first use.
func (c *Cache)Decoded(g lfp.Group, id lfp.ID) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := lfp.ImageKey{Group: g, ID: id}
	if c.released {
		return nil, &lfp.DecodeError{Key: key, Err: ErrReleased}
	}
	return c.decodeLocked(key)
}

func (c *Cache)decodeLocked(key lfp.ImageKey) (image.Image, error) {
	if d, exists := c.decoded[key]; exists {
		return d.img, d.err
	}

	start := time.Now()
	img, err := c.src.Decode(key.Group, key.ID)
	record(c.timings.decode, time.Since(start))
	c.stats.Decodes++

	if err == nil && img == nil {
		err = errors.New("decoder returned no image")
	}
	if err != nil {
		var de *lfp.DecodeError
		if !errors.As(err, &de) {
			de = &lfp.DecodeError{Key: key, Err: err}
		}
		c.stats.DecodeFailures++
		c.decoded[key] = decoded{err: de}
		c.log.Warn().Err(de).Stringer("image", key).Msg("decode failed")
		return nil, de
	}

	c.decoded[key] = decoded{img: img}
	c.log.Debug().Stringer("image", key).Stringer("bounds", img.Bounds()).Dur("took", time.Since(start)).Msg("decoded")
	return img, nil
}

// Preload decodes the given images up front. Every key is attempted; the
// failures are joined into the returned error.
func (c *Cache)Preload(keys []lfp.ImageKey) (int, error) {
	loaded := 0
	errs := []error{}
	for _, key := range keys {
		if _, err := c.Decoded(key.Group, key.ID); err != nil {
			errs = append(errs, err)
		} else {
			loaded++
		}
	}
	return loaded, errors.Join(errs...)
}

// InvalidateSize makes `size` the active display size. If it differs from
// the previous one, every resized bitmap is dropped; decoded images are
// kept. It reports whether anything was invalidated.
func (c *Cache)InvalidateSize(size lfp.Size) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size == c.size {
		return false
	}
	c.log.Debug().Stringer("from", c.size).Stringer("to", size).Int("dropped", len(c.resized)).Msg("size changed")
	c.size = size
	c.resized = map[resizedKey]*Bitmap{}
	c.stats.Invalidations++
	return true
}

func (c *Cache)ActiveSize() lfp.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Release drops both levels; the cache can't be used afterwards.
func (c *Cache)Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.decoded = map[lfp.ImageKey]decoded{}
	c.resized = map[resizedKey]*Bitmap{}
	c.released = true
}

func (c *Cache)Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.DecodedImages = len(c.decoded)
	s.ResizedImages = len(c.resized)
	c.timings.fill(&s)
	return s
}
