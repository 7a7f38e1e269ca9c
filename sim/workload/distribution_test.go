package workload

import (
	"math"
	"math/rand"
	"testing"
)

func TestGaussianSampler_ClampedToRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewTickSampler(DistSpec{
		Type:   "gaussian",
		Params: map[string]float64{"mean": 10, "std_dev": 50, "min": 3, "max": 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		v := s.Sample(rng)
		if v < 3 || v > 20 {
			t.Fatalf("sample %d outside [3, 20]", v)
		}
	}
}

func TestExponentialSampler_MeanMatchesParam(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewTickSampler(DistSpec{Type: "exponential", Params: map[string]float64{"mean": 100}})
	if err != nil {
		t.Fatal(err)
	}
	n := 10000
	var sum int64
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		if v < 1 {
			t.Fatalf("sample %d must be positive", v)
		}
		sum += v
	}
	mean := float64(sum) / float64(n)
	if math.Abs(mean-100)/100 > 0.05 {
		t.Errorf("exponential mean = %.1f, want ≈ 100 (within 5%%)", mean)
	}
}

func TestUniformSampler_CoversInclusiveRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s, err := NewTickSampler(DistSpec{Type: "uniform", Params: map[string]float64{"min": 2, "max": 4}})
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		v := s.Sample(rng)
		if v < 2 || v > 4 {
			t.Fatalf("sample %d outside [2, 4]", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all of 2, 3, 4 to be drawn, saw %v", seen)
	}
}

func TestConstantSampler_NeverBelowOne(t *testing.T) {
	s, err := NewTickSampler(DistSpec{Type: "constant", Params: map[string]float64{"value": 0}})
	if err != nil {
		t.Fatal(err)
	}
	if v := s.Sample(nil); v != 1 {
		t.Errorf("constant 0 sampled %d, want 1", v)
	}
}

func TestNewTickSampler_InvalidSpecs_ReturnError(t *testing.T) {
	specs := []DistSpec{
		{Type: "gaussian", Params: map[string]float64{"mean": 5}},
		{Type: "uniform", Params: map[string]float64{"min": 5, "max": 2}},
		{Type: "exponential"},
		{Type: "pareto"},
	}
	for _, spec := range specs {
		if _, err := NewTickSampler(spec); err == nil {
			t.Errorf("expected error for %+v", spec)
		}
	}
}
