package renderer

import (
	"fmt"
	"image"
	"time"
)

// PassKind identifies a render pass
type PassKind string

const (
	PassNone  PassKind = "none"
	PassQuick PassKind = "quick" // One unlit sample per pixel
	PassFull  PassKind = "full"  // Lit, antialiased
)

// RenderStats contains statistics about the last render pass
type RenderStats struct {
	Pass         PassKind      // Kind of pass
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera rays traced
	Workers      int           // Goroutines that rendered the pass
	Tiles        int           // Tiles the pass was split into
	Duration     time.Duration // Wall clock time of the pass
}

// AverageSamples returns the samples per pixel of the pass
func (rs RenderStats) AverageSamples() float64 {
	if rs.TotalPixels == 0 {
		return 0
	}
	return float64(rs.TotalSamples) / float64(rs.TotalPixels)
}

func (rs RenderStats) String() string {
	return fmt.Sprintf("%s pass: %d pixels, %.1f spp, %d workers, %d tiles in %v",
		rs.Pass, rs.TotalPixels, rs.AverageSamples(), rs.Workers, rs.Tiles, rs.Duration.Round(time.Millisecond))
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
		}
	}
	return total / float64(pixels)
}
