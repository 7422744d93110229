package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "downloading") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSamplerShouldLogStageChange(t *testing.T) {
	s := NewProgressSampler(5)

	if !s.ShouldLog(0, "downloading") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(0, "downloading") {
		t.Error("same stage and percent should not log again")
	}
	if !s.ShouldLog(0, "converting") {
		t.Error("different stage should log")
	}
	if s.lastStage != "converting" {
		t.Errorf("lastStage = %q, want converting", s.lastStage)
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(5)

	if !s.ShouldLog(0, "downloading") {
		t.Error("0%% should log")
	}
	if s.ShouldLog(3, "downloading") {
		t.Error("3%% stays in the first bucket and should not log")
	}
	if !s.ShouldLog(5, "downloading") {
		t.Error("crossing a bucket boundary should log")
	}
	if !s.ShouldLog(100, "downloading") {
		t.Error("reaching 100%% should log")
	}
	if s.ShouldLog(100, "downloading") {
		t.Error("repeated 100%% should not log")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "downloading")
	s.Reset()
	if !s.ShouldLog(50, "downloading") {
		t.Error("after reset the same progress should log again")
	}
}
