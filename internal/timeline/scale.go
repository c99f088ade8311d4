package timeline

// Coordinate mapping between the zoom-independent base-pixel unit used for
// storage and the zoom-scaled visual unit used for rendering and pointer
// input. Changing zoom never touches stored geometry; only these derived
// conversions move.

// VisualPixelsPerSecond returns the on-screen rate for a zoom percentage.
func VisualPixelsPerSecond(zoomPercent int) float64 {
	return BasePixelsPerSecond * float64(zoomPercent) / 100
}

// BaseToVisual converts stored base pixels to visual pixels at a zoom level.
func BaseToVisual(base float64, zoomPercent int) float64 {
	return base / BasePixelsPerSecond * VisualPixelsPerSecond(zoomPercent)
}

// VisualToBase converts an on-screen pixel offset back to base pixels.
// Zoom is clamped to a positive range by the zoom controller, so the rate
// is never zero.
func VisualToBase(visual float64, zoomPercent int) float64 {
	return visual / VisualPixelsPerSecond(zoomPercent) * BasePixelsPerSecond
}

// ScreenOffsetToSeconds converts a pointer offset on the timeline surface
// to a time value at the current zoom.
func ScreenOffsetToSeconds(offset float64, zoomPercent int) float64 {
	return offset / VisualPixelsPerSecond(zoomPercent)
}

// SecondsToBase converts a duration or position in seconds to base pixels
// at the fixed storage rate.
func SecondsToBase(seconds float64) float64 {
	return seconds * BasePixelsPerSecond
}

// BaseToSeconds converts base pixels to seconds at the fixed storage rate.
func BaseToSeconds(base float64) float64 {
	return base / BasePixelsPerSecond
}
