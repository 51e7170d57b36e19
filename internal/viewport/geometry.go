package viewport

import "github.com/san-kum/motionkit/internal/mathx"

// Rect is a vertical extent measured from the top of the viewport. A negative
// Top means the element starts above the visible area.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center is the vertical midpoint of r.
func (r Rect) Center() float64 { return r.Top + r.Height/2 }

type Viewport struct {
	Height float64 `json:"height"`
}

// Visibility is the fraction of the element that is on screen. Elements taller
// than the viewport count as fully visible once they cover it.
func Visibility(r Rect, vp Viewport) float64 {
	if r.Height <= 0 || vp.Height <= 0 {
		return 0
	}
	visible := min(r.Bottom(), vp.Height) - max(r.Top, 0)
	if visible <= 0 {
		return 0
	}
	return mathx.Clamp01(visible / min(r.Height, vp.Height))
}

// Progress runs from 0 when the element's top edge enters at the bottom of the
// viewport to 1 when its bottom edge leaves through the top.
func Progress(r Rect, vp Viewport) float64 {
	span := vp.Height + r.Height
	if span <= 0 {
		return 0
	}
	return mathx.Clamp01((vp.Height - r.Top) / span)
}

// CenterOffset is the signed distance from the viewport center to the element
// center, normalized by half the viewport height. 0 means centered.
func CenterOffset(r Rect, vp Viewport) float64 {
	if vp.Height <= 0 {
		return 0
	}
	return (r.Center() - vp.Height/2) / (vp.Height / 2)
}
