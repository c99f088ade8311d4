package timeline

import "testing"

func TestZoom_StepAndClamp(t *testing.T) {
	z := NewZoom()

	if z.Percent() != 100 {
		t.Fatalf("initial zoom = %d, want 100", z.Percent())
	}

	if got := z.In(); got != 125 {
		t.Errorf("In() = %d, want 125", got)
	}

	z.Set(MaxZoomPercent)
	if got := z.In(); got != MaxZoomPercent {
		t.Errorf("In() past max = %d, want %d", got, MaxZoomPercent)
	}

	z.Set(MinZoomPercent)
	if got := z.Out(); got != MinZoomPercent {
		t.Errorf("Out() past min = %d, want %d", got, MinZoomPercent)
	}
}

func TestZoom_SetClamps(t *testing.T) {
	tests := []struct {
		request int
		want    int
	}{
		{10, 25},
		{25, 25},
		{150, 150},
		{500, 500},
		{9000, 500},
		{-50, 25},
	}

	z := NewZoom()
	for _, tt := range tests {
		if got := z.Set(tt.request); got != tt.want {
			t.Errorf("Set(%d) = %d, want %d", tt.request, got, tt.want)
		}
	}
}

func TestZoom_FitToContent(t *testing.T) {
	tests := []struct {
		name       string
		endSeconds float64
		want       int
	}{
		{"empty timeline resets to 100", 0, 100},
		{"content exactly one viewport at 100", 100, 100},
		{"short content clamps at max", 5, 500},
		{"long content clamps at min", 2000, 25},
		{"rounds to nearest step", 180, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewZoom()
			if got := z.FitToContent(tt.endSeconds); got != tt.want {
				t.Errorf("FitToContent(%v) = %d, want %d", tt.endSeconds, got, tt.want)
			}
		})
	}
}
