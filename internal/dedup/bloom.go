package dedup

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Approximate is a Bloom-filter-backed Index: bounded memory, a configured
// false-positive rate, and a hard capacity after which Add reports
// at-capacity instead of admitting further URLs.
type Approximate struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	capacity uint
	count    uint
}

// NewApproximate builds a filter sized for capacity entries at the given
// false-positive rate (e.g. 0.01 for 1%).
func NewApproximate(capacity uint, falsePositiveRate float64) *Approximate {
	return &Approximate{
		filter:   bloom.NewWithEstimates(capacity, falsePositiveRate),
		capacity: capacity,
	}
}

func (a *Approximate) Contains(u string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter.TestString(u)
}

// Add inserts u unless capacity has already been exhausted, in which case
// it reports ok=false and leaves the filter untouched (the caller is
// expected to drop the URL and log once).
func (a *Approximate) Add(u string) (ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.filter.TestString(u) {
		return true
	}
	if a.count >= a.capacity {
		return false
	}
	a.filter.AddString(u)
	a.count++
	return true
}

func (a *Approximate) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.count)
}

// AtCapacity reports whether the filter has reached its configured capacity.
func (a *Approximate) AtCapacity() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count >= a.capacity
}
