package sim

import (
	"hash/fnv"
	"math/rand"
)

// Stream names one independent source of randomness in workload generation.
type Stream string

const (
	StreamArrivals Stream = "arrivals" // gaps between process start ticks
	StreamPhases   Stream = "phases"   // phase counts, kinds and durations
)

// SeededStreams derives one *rand.Rand per Stream from a single workload
// seed. Each stream is seeded with seed ^ fnv1a(name), so how many values
// one stream consumes never shifts what another one yields.
type SeededStreams struct {
	seed    int64
	streams map[Stream]*rand.Rand
}

func NewSeededStreams(seed int64) *SeededStreams {
	return &SeededStreams{seed: seed, streams: make(map[Stream]*rand.Rand)}
}

// Seed returns the workload seed the streams were derived from.
func (s *SeededStreams) Seed() int64 { return s.seed }

// Stream returns the generator for name. Repeated calls continue the same
// sequence rather than restarting it.
func (s *SeededStreams) Stream(name Stream) *rand.Rand {
	if r, ok := s.streams[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(s.seed ^ streamSalt(name)))
	s.streams[name] = r
	return r
}

func streamSalt(name Stream) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}
