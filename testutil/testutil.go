package testutil

import (
	"fmt"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Uint64 returns a pseudo-random 64-bit value.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// IntN returns, as an int, a pseudo-random number in [0, n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Keys generates num distinct string keys. Keys are random enough to spread
// across buckets under any reasonable hash function.
func (r *RNG) Keys(num int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, num)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d:%016x", i, r.rand.Uint64())
	}
	return keys
}

// Values generates num string values paired with Keys output.
func (r *RNG) Values(num int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	vals := make([]string, num)
	for i := range vals {
		vals[i] = fmt.Sprintf("val:%016x", r.rand.Uint64())
	}
	return vals
}

// Shuffle permutes keys in place.
func (r *RNG) Shuffle(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
}

// ChiSquared computes the chi-squared statistic of observed counts against a
// uniform expectation. Lower is flatter; tests compare the statistic of two
// samplers rather than asserting absolute thresholds.
func ChiSquared(counts []int, expected float64) float64 {
	var stat float64
	for _, c := range counts {
		d := float64(c) - expected
		stat += d * d / expected
	}
	return stat
}
