// Package clip implements Cohen–Sutherland line clipping against a
// rectangular viewport.
package clip

import "errors"

// Location codes. Left/Right and Bottom/Top are mutually exclusive pairs,
// so a code has at most one horizontal and one vertical bit set.
const (
	Inside = 0
	Left   = 1
	Right  = 2
	Bottom = 4
	Top    = 8
)

// ErrOutside is returned when a segment lies entirely outside the bounds.
var ErrOutside = errors.New("clip: segment outside bounds")

// ErrInconsistent is returned when an endpoint flagged as outside does not
// test outside any of the four bound lines. This cannot happen for
// well-formed bounds and signals a logic error in the caller's input.
var ErrInconsistent = errors.New("clip: no endpoint outside the bounds")

// Point is a 2D point in viewport coordinates.
type Point struct {
	X, Y float64
}

// Rect is a clipping rectangle. Callers must keep Min <= Max per axis.
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// LocationCode classifies a point against the bounds as a bitwise
// combination of Left/Right/Bottom/Top, or Inside (0).
func LocationCode(b Rect, x, y float64) int {
	code := Inside

	if x < b.XMin {
		code |= Left
	} else if x > b.XMax {
		code |= Right
	}

	if y < b.YMin {
		code |= Bottom
	} else if y > b.YMax {
		code |= Top
	}

	return code
}

// Segment clips the segment p0-p1 to the bounds. A segment fully inside is
// returned unchanged; a segment fully outside returns ErrOutside. For a
// well-formed rectangle the loop converges in at most four iterations, one
// per clip edge.
func Segment(b Rect, p0, p1 Point) (Point, Point, error) {
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y

	code0 := LocationCode(b, x0, y0)
	code1 := LocationCode(b, x1, y1)

	for {
		if code0|code1 == 0 {
			// both endpoints inside the bounds
			return Point{x0, y0}, Point{x1, y1}, nil
		}
		if code0&code1 != 0 {
			// both endpoints share an outside zone, the segment cannot
			// cross the bounds
			return Point{}, Point{}, ErrOutside
		}

		// pick the endpoint with the greater code as the one to advance
		outer := code0
		if code1 > code0 {
			outer = code1
		}

		// Intersect with the corresponding bound line:
		//   x = x0 + (x1-x0) * (ym-y0)/(y1-y0)
		//   y = y0 + (y1-y0) * (xm-x0)/(x1-x0)
		// The outer bit being set guarantees a non-zero denominator.
		var x, y float64
		switch {
		case outer&Top != 0:
			x = x0 + (x1-x0)*(b.YMax-y0)/(y1-y0)
			y = b.YMax
		case outer&Bottom != 0:
			x = x0 + (x1-x0)*(b.YMin-y0)/(y1-y0)
			y = b.YMin
		case outer&Right != 0:
			y = y0 + (y1-y0)*(b.XMax-x0)/(x1-x0)
			x = b.XMax
		case outer&Left != 0:
			y = y0 + (y1-y0)*(b.XMin-x0)/(x1-x0)
			x = b.XMin
		default:
			return Point{}, Point{}, ErrInconsistent
		}

		if outer == code0 {
			x0, y0 = x, y
			code0 = LocationCode(b, x0, y0)
		} else {
			x1, y1 = x, y
			code1 = LocationCode(b, x1, y1)
		}
	}
}
