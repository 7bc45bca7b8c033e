package core

import (
	"fmt"
	"math/rand"
)

// SampleGenerator produces sub-pixel sample offsets for antialiasing.
// Sample must be deterministic and re-callable: the same sample number always
// yields the same offset, with both components in [-0.5, 0.5].
type SampleGenerator interface {
	Sample(sampleNumber int) Vec2
	Count() int // Samples per pixel
}

// RegularSampler places samples on a centered, evenly spaced N×N grid strictly
// inside the pixel
type RegularSampler struct {
	samplesPerSide int
}

// NewRegularSampler creates a grid sampler with samplesPerSide² samples per pixel
func NewRegularSampler(samplesPerSide int) (*RegularSampler, error) {
	if samplesPerSide < 1 {
		return nil, fmt.Errorf("samples per side must be at least 1, got %d", samplesPerSide)
	}
	return &RegularSampler{samplesPerSide: samplesPerSide}, nil
}

// Sample returns the grid offset for sampleNumber, taken modulo N²
func (s *RegularSampler) Sample(sampleNumber int) Vec2 {
	n := s.samplesPerSide
	sampleNumber %= n * n
	if sampleNumber < 0 {
		sampleNumber += n * n
	}

	stride := 1.0 / float64(n+1)

	// 1-indexed so samples never land on the pixel edge
	row := sampleNumber/n + 1
	column := sampleNumber%n + 1

	return Vec2{
		stride*float64(column) - 0.5,
		stride*float64(row) - 0.5,
	}
}

// Count returns the number of samples per pixel (N²)
func (s *RegularSampler) Count() int {
	return s.samplesPerSide * s.samplesPerSide
}

// SamplesPerSide returns N
func (s *RegularSampler) SamplesPerSide() int {
	return s.samplesPerSide
}

// RandomSampler draws a fixed table of uniformly random offsets once from a
// seeded source, so repeated lookups stay deterministic
type RandomSampler struct {
	offsets []Vec2
}

// NewRandomSampler creates a sampler with count random offsets from the given seed
func NewRandomSampler(count int, seed int64) (*RandomSampler, error) {
	if count < 1 {
		return nil, fmt.Errorf("sample count must be at least 1, got %d", count)
	}

	random := rand.New(rand.NewSource(seed))
	offsets := make([]Vec2, count)
	for i := range offsets {
		offsets[i] = Vec2{random.Float64() - 0.5, random.Float64() - 0.5}
	}

	return &RandomSampler{offsets: offsets}, nil
}

// Sample returns the stored offset for sampleNumber, taken modulo Count()
func (s *RandomSampler) Sample(sampleNumber int) Vec2 {
	i := sampleNumber % len(s.offsets)
	if i < 0 {
		i += len(s.offsets)
	}
	return s.offsets[i]
}

// Count returns the number of samples per pixel
func (s *RandomSampler) Count() int {
	return len(s.offsets)
}
