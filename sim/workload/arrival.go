package workload

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ArrivalSampler generates the gap between consecutive process starts.
type ArrivalSampler interface {
	// SampleGap returns the next gap in ticks. Zero means a simultaneous start.
	SampleGap(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed gaps.
type PoissonSampler struct {
	meanGap float64
}

func (s *PoissonSampler) SampleGap(rng *rand.Rand) int64 {
	return int64(math.Round(rng.ExpFloat64() * s.meanGap))
}

// ConstantArrivalSampler starts processes at a fixed interval.
type ConstantArrivalSampler struct {
	gap int64
}

func (s *ConstantArrivalSampler) SampleGap(_ *rand.Rand) int64 {
	return s.gap
}

// NewArrivalSampler creates an ArrivalSampler from an ArrivalSpec.
func NewArrivalSampler(spec ArrivalSpec) ArrivalSampler {
	switch spec.Process {
	case "constant":
		return &ConstantArrivalSampler{gap: int64(math.Round(spec.MeanGap))}
	case "poisson":
		return &PoissonSampler{meanGap: spec.MeanGap}
	default:
		logrus.Warnf("unknown arrival process %q, falling back to constant", spec.Process)
		return &ConstantArrivalSampler{gap: int64(math.Round(spec.MeanGap))}
	}
}
