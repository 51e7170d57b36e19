package viewport

import (
	"math"
	"testing"
)

func TestVisibility(t *testing.T) {
	vp := Viewport{Height: 800}
	tests := []struct {
		name string
		r    Rect
		want float64
	}{
		{"fully inside", Rect{Top: 0, Height: 400}, 1},
		{"half below", Rect{Top: 600, Height: 400}, 0.5},
		{"quarter above", Rect{Top: -300, Height: 400}, 0.25},
		{"taller than viewport", Rect{Top: -100, Height: 2000}, 1},
		{"below viewport", Rect{Top: 900, Height: 100}, 0},
		{"above viewport", Rect{Top: -500, Height: 100}, 0},
		{"touching bottom edge", Rect{Top: 800, Height: 100}, 0},
		{"zero height", Rect{Top: 100, Height: 0}, 0},
		{"negative height", Rect{Top: 100, Height: -10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visibility(tt.r, vp); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestVisibilityAlwaysInRange(t *testing.T) {
	for _, vh := range []float64{1, 300, 800, 5000} {
		vp := Viewport{Height: vh}
		for top := -6000.0; top <= 6000; top += 137 {
			for _, h := range []float64{0.5, 50, 799, 800, 801, 12000} {
				v := Visibility(Rect{Top: top, Height: h}, vp)
				if v < 0 || v > 1 {
					t.Fatalf("visibility %v out of range for top=%v h=%v vh=%v", v, top, h, vh)
				}
			}
		}
	}
}

func TestProgress(t *testing.T) {
	vp := Viewport{Height: 800}
	tests := []struct {
		name string
		r    Rect
		want float64
	}{
		{"entering", Rect{Top: 800, Height: 200}, 0},
		{"below", Rect{Top: 1000, Height: 200}, 0},
		{"leaving", Rect{Top: -200, Height: 200}, 1},
		{"gone", Rect{Top: -900, Height: 200}, 1},
		{"centered", Rect{Top: 300, Height: 200}, 0.5},
		{"centered tall", Rect{Top: -600, Height: 2000}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.r, vp); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProgressCenteredForAnySize(t *testing.T) {
	for _, vh := range []float64{320, 768, 1080} {
		for _, h := range []float64{10, 320, 999, 4000} {
			r := Rect{Top: (vh - h) / 2, Height: h}
			if got := Progress(r, Viewport{Height: vh}); math.Abs(got-0.5) > 1e-12 {
				t.Errorf("vh=%v h=%v: expected 0.5, got %v", vh, h, got)
			}
		}
	}
}

func TestCenterOffset(t *testing.T) {
	vp := Viewport{Height: 800}
	if got := CenterOffset(Rect{Top: 300, Height: 200}, vp); got != 0 {
		t.Errorf("expected 0 for centered rect, got %v", got)
	}
	if got := CenterOffset(Rect{Top: 700, Height: 200}, vp); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := CenterOffset(Rect{}, Viewport{}); got != 0 {
		t.Errorf("expected 0 for empty viewport, got %v", got)
	}
}
