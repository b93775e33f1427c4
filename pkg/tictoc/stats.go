package tictoc

import "math"

// Stats holds the running statistics for one tag. All durations are in
// nanoseconds. Mean and the internal sum of squared deviations are
// maintained with Welford's online algorithm, so folding observations
// one at a time matches a batch computation to floating-point
// tolerance regardless of how many aggregation cycles they arrive in.
type Stats struct {
	Mean  float64
	Min   float64
	Max   float64
	Count uint64

	// sst is the running sum of squared deviations from the mean.
	sst float64
}

// observe folds a single duration into the running statistics.
// The two-step delta computation is load-bearing: it is what keeps the
// variance numerically stable over long runs. Do not replace it with a
// sum-of-squares formula.
func (s *Stats) observe(duration float64) {
	if s.Count == 0 {
		s.Min = math.Inf(1)
		s.Max = 0
	}
	s.Count++
	delta := duration - s.Mean
	s.Mean += delta / float64(s.Count)
	s.sst += delta * (duration - s.Mean)
	s.Min = math.Min(s.Min, duration)
	s.Max = math.Max(s.Max, duration)
}

// Variance returns the Bessel-corrected sample variance in ns².
// A single observation has no defined sample variance; 0 is returned
// for Count < 2.
func (s Stats) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	return s.sst / float64(s.Count-1)
}

// StdDev returns the sample standard deviation in nanoseconds.
func (s Stats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}
