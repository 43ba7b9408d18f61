package pipeline

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Deduper is a probabilistic set of seen patterns. False positives drop a
// fresh pattern; false negatives never happen, so no pattern is emitted twice.
type Deduper struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewDeduper sizes the filter for n items at false-positive rate fp.
func NewDeduper(n uint, fp float64) *Deduper {
	return &Deduper{filter: bloom.NewWithEstimates(n, fp)}
}

// Seen reports whether key was probably recorded before, and records it.
func (d *Deduper) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.TestAndAddString(key)
}
