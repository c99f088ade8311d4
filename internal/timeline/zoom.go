package timeline

import "math"

const (
	MinZoomPercent  = 25
	MaxZoomPercent  = 500
	ZoomStepPercent = 25

	// FitViewportWidth is the visual-pixel span zoomToFit solves against.
	FitViewportWidth = 1000.0
)

// Zoom maintains the integer zoom percentage. All entry points clamp to
// [MinZoomPercent, MaxZoomPercent], so the visual rate is always positive.
type Zoom struct {
	percent int
}

func NewZoom() *Zoom {
	return &Zoom{percent: 100}
}

func (z *Zoom) Percent() int {
	return z.percent
}

// VisualRate returns visual pixels per second at the current level.
func (z *Zoom) VisualRate() float64 {
	return VisualPixelsPerSecond(z.percent)
}

func (z *Zoom) In() int {
	return z.Set(z.percent + ZoomStepPercent)
}

func (z *Zoom) Out() int {
	return z.Set(z.percent - ZoomStepPercent)
}

// Set clamps the requested percentage into range and returns the result.
func (z *Zoom) Set(percent int) int {
	z.percent = clampZoom(percent)
	return z.percent
}

// FitToContent computes, in closed form, the zoom level at which content
// ending at endSeconds fills the fit viewport, rounded to the nearest step
// and clamped. An empty timeline resets to 100%.
func (z *Zoom) FitToContent(endSeconds float64) int {
	if endSeconds <= 0 {
		z.percent = 100
		return z.percent
	}
	exact := FitViewportWidth / (endSeconds * BasePixelsPerSecond) * 100
	stepped := int(math.Round(exact/ZoomStepPercent)) * ZoomStepPercent
	z.percent = clampZoom(stepped)
	return z.percent
}

func clampZoom(percent int) int {
	if percent < MinZoomPercent {
		return MinZoomPercent
	}
	if percent > MaxZoomPercent {
		return MaxZoomPercent
	}
	return percent
}
