package tictoc

import (
	"math"
	"testing"
)

func TestObserveMatchesBatch(t *testing.T) {
	// Values with a large common offset, the case a naive
	// sum-of-squares formula loses precision on
	values := []float64{1e9 + 4, 1e9 + 7, 1e9 + 13, 1e9 + 16, 1e9 + 10, 1e9 + 1}

	var s Stats
	for _, v := range values {
		s.observe(v)
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sst float64
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		sst += (v - mean) * (v - mean)
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	variance := sst / float64(len(values)-1)

	if math.Abs(s.Mean-mean) > 1e-6 {
		t.Errorf("Online mean %f differs from batch mean %f", s.Mean, mean)
	}
	if math.Abs(s.Variance()-variance) > 1e-6 {
		t.Errorf("Online variance %f differs from batch variance %f", s.Variance(), variance)
	}
	if s.Min != min || s.Max != max {
		t.Errorf("Expected min %f max %f, got min %f max %f", min, max, s.Min, s.Max)
	}
	if s.Count != uint64(len(values)) {
		t.Errorf("Expected count %d, got %d", len(values), s.Count)
	}
}

func TestSingleObservation(t *testing.T) {
	var s Stats
	s.observe(42)

	if s.Count != 1 {
		t.Fatalf("Expected count 1, got %d", s.Count)
	}
	if s.Variance() != 0 {
		t.Errorf("Sample variance of one observation should report 0, got %f", s.Variance())
	}
	if s.StdDev() != 0 {
		t.Errorf("StdDev of one observation should report 0, got %f", s.StdDev())
	}
	if s.Mean != 42 || s.Min != 42 || s.Max != 42 {
		t.Errorf("Expected mean, min and max all 42, got %f %f %f", s.Mean, s.Min, s.Max)
	}
}

func TestZeroValueStats(t *testing.T) {
	var s Stats
	if s.Variance() != 0 || s.StdDev() != 0 {
		t.Error("Zero-value Stats should report zero variance and stddev")
	}
}
