// Package sampler is the sole entropy source consumed by the SBM inference
// engine. Every random draw made anywhere in pkg/sbm flows through a
// *Sampler, so that reproducibility is a simple function of (seed, call
// order).
package sampler

import (
	"errors"
	"math/rand"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// ErrEmptySequence is returned by Sample, SampleInt and SampleWeighted when
// asked to draw from an empty population.
var ErrEmptySequence = errors.New("sampler: cannot sample from empty sequence")

// Sampler wraps a seeded PRNG. It is not safe for concurrent use - each
// engine owns exactly one Sampler, matching the single-threaded-per-chain
// contract in the engine's concurrency model.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler seeded deterministically. Two Samplers built with
// the same seed and driven with the same call order produce identical
// sequences of draws.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// DrawUnif returns a uniform draw in [0, 1).
func (s *Sampler) DrawUnif() float64 {
	return s.rng.Float64()
}

// SampleInt returns a uniform integer in [0, n).
func (s *Sampler) SampleInt(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptySequence
	}
	return s.rng.Intn(n), nil
}

// Sample returns a uniformly chosen element of seq.
func Sample[T any](s *Sampler, seq []T) (T, error) {
	var zero T
	if len(seq) == 0 {
		return zero, ErrEmptySequence
	}
	idx, err := s.SampleInt(len(seq))
	if err != nil {
		return zero, err
	}
	return seq[idx], nil
}

// ShuffleSlice performs an in-place Fisher-Yates shuffle of seq.
func ShuffleSlice[T any](s *Sampler, seq []T) {
	s.rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})
}

// SampleWeighted returns an index into weights chosen with probability
// proportional to its weight. If every weight is zero it falls back to a
// uniform draw over the same index range, so the method always succeeds on
// a non-empty slice.
func (s *Sampler) SampleWeighted(weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, ErrEmptySequence
	}

	w := sampleuv.NewWeighted(weights, expRandSource{s.rng})
	if idx, ok := w.Take(); ok {
		return idx, nil
	}
	return s.SampleInt(len(weights))
}

// expRandSource adapts *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface expected by gonum's sampleuv package, without altering the
// underlying random stream.
type expRandSource struct {
	rng *rand.Rand
}

func (e expRandSource) Uint64() uint64 {
	return e.rng.Uint64()
}

func (e expRandSource) Seed(seed uint64) {
	e.rng.Seed(int64(seed))
}
