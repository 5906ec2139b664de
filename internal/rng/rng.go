// Package rng provides the world's single seeded random source. Every draw the
// simulation makes goes through here so that two runs with the same seed and
// the same action sequence produce identical worlds.
package rng

import (
	"hash/fnv"
	"math/rand"
)

// Source wraps math/rand with a remembered seed. Accessed only from the game
// loop goroutine — no locks.
type Source struct {
	seed int64
	r    *rand.Rand
}

func New(seed int64) *Source {
	return &Source{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 { return s.seed }

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int { return s.r.Intn(n) }

// Float64 returns a uniform float64 in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// Range returns a uniform float64 in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool { return s.r.Float64() < p }

// KeyedFloat returns a float64 in [0, 1) derived from the seed and a string
// key, independent of how many draws the main stream has consumed. Used where
// replay must not perturb unrelated draws (seed drops keyed by resource+tick).
func (s *Source) KeyedFloat(key string) float64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(s.seed >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(key))
	local := rand.New(rand.NewSource(int64(h.Sum64())))
	return local.Float64()
}

// KeyedChance returns true with probability p, derived from the keyed stream.
func (s *Source) KeyedChance(p float64, key string) bool {
	return s.KeyedFloat(key) < p
}
