package warviz

import "github.com/hajimehoshi/ebiten/v2"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Lighten moves each RGB component toward 1 by the fraction f.
func (c Color) Lighten(f float64) Color {
	return Color{
		R: c.R + (1-c.R)*f,
		G: c.G + (1-c.G)*f,
		B: c.B + (1-c.B)*f,
		A: c.A,
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// WhitePixel is a 1x1 white image used by default for solid color rects and meshes.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeRect                      // solid rectangle; ScaleX/ScaleY are its size
	NodeTypeMesh                      // renders arbitrary triangles via DrawTriangles
	NodeTypeText                      // renders text via a Font
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves, pressed or not
	EventClick                         // fires on press then release over the same node
	EventPointerEnter                  // fires when the pointer enters a node's bounds
	EventPointerLeave                  // fires when the pointer leaves a node's bounds

	numEventTypes
)

// String returns the event name used in logs.
func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerMove:
		return "pointer-move"
	case EventClick:
		return "click"
	case EventPointerEnter:
		return "pointer-enter"
	case EventPointerLeave:
		return "pointer-leave"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// TextAlign controls horizontal alignment of captions within their width.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)
