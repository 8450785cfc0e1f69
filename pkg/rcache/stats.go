package rcache

import(
	"fmt"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Timings are recorded in microseconds, up to a minute.
const maxMicros = int64(60 * time.Second / time.Microsecond)

type timings struct {
	decode   *hdrhistogram.Histogram
	resample *hdrhistogram.Histogram
}

func newTimings() timings {
	return timings{
		decode:   hdrhistogram.New(1, maxMicros, 3),
		resample: hdrhistogram.New(1, maxMicros, 3),
	}
}

func record(h *hdrhistogram.Histogram, d time.Duration) {
	v := d.Microseconds()
	if v < 1 {
		v = 1
	} else if v > maxMicros {
		v = maxMicros
	}
	h.RecordValue(v) // only fails out of range, which we've clamped away
}

// Stats is a snapshot of what the cache has done so far.
type Stats struct {
	Decodes        int  // calls into the picture's decoder
	DecodeFailures int
	Resamples      int
	Hits           int  // Get calls answered from the resized cache
	Invalidations  int  // times the resized cache was dropped

	DecodedImages  int  // entries currently held, per level
	ResizedImages  int

	DecodeP50, DecodeP99     time.Duration
	ResampleP50, ResampleP99 time.Duration
}

func (t timings)fill(s *Stats) {
	q := func(h *hdrhistogram.Histogram, pct float64) time.Duration {
		if h.TotalCount() == 0 {
			return 0
		}
		return time.Duration(h.ValueAtQuantile(pct)) * time.Microsecond
	}
	s.DecodeP50, s.DecodeP99 = q(t.decode, 50), q(t.decode, 99)
	s.ResampleP50, s.ResampleP99 = q(t.resample, 50), q(t.resample, 99)
}

func (s Stats)String() string {
	return fmt.Sprintf("decodes:%d (failed %d, p50 %s, p99 %s), resamples:%d (p50 %s, p99 %s), hits:%d, invalidations:%d, held:%d/%d",
		s.Decodes, s.DecodeFailures, s.DecodeP50, s.DecodeP99,
		s.Resamples, s.ResampleP50, s.ResampleP99,
		s.Hits, s.Invalidations, s.DecodedImages, s.ResizedImages)
}
