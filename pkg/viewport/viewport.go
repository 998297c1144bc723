package viewport

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/deepgen/famtree/pkg/layout"
)

// ErrDisposed is returned by operations on a disposed session.
var ErrDisposed = errors.New("viewport: session disposed")

// ErrNotMeasured is returned by FitAndCenter when the viewport has no size yet.
var ErrNotMeasured = errors.New("viewport: viewport size not measured")

// =============================================================================
// Geometry
// =============================================================================

// Point is a 2-D point, in screen or layout units depending on context.
type Point struct {
	X, Y float64
}

// Size is a viewport size in screen units.
type Size struct {
	Width, Height float64
}

// Transform maps layout coordinates to screen coordinates.
type Transform struct {
	X, Y float64
	K    float64
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a layout point to the screen.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to layout coordinates.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Direction is a zoom direction.
type Direction int

const (
	ZoomIn  Direction = 1
	ZoomOut Direction = -1
)

// =============================================================================
// Session
// =============================================================================

// Session is the viewport state owned by one viewer.
type Session struct {
	ID string

	transform Transform
	wired     bool
	disposed  bool

	pressed bool
	dragged bool
	last    Point
	travel  float64
}

// NewSession returns a session with the identity transform.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), transform: Identity}
}

// Transform returns the current transform.
func (s *Session) Transform() Transform { return s.transform }

// SetTransform replaces the current transform, e.g. to restore a view after
// a re-render. Non-finite or non-positive scales are rejected.
func (s *Session) SetTransform(t Transform) error {
	if s.disposed {
		return ErrDisposed
	}
	if !finite(t.X) || !finite(t.Y) || !finite(t.K) || t.K <= 0 {
		return errors.New("viewport: invalid transform")
	}
	s.transform = t
	return nil
}

// Wire marks input handlers as attached and reports whether this call did
// the attaching. Hosts call it on every render and attach handlers only when
// it returns true, so handlers are attached at most once per session.
func (s *Session) Wire() bool {
	if s.disposed || s.wired {
		return false
	}
	s.wired = true
	return true
}

// Wired reports whether input handlers are attached.
func (s *Session) Wired() bool { return s.wired }

// Dragging reports whether the current gesture has turned into a pan.
func (s *Session) Dragging() bool { return s.pressed && s.dragged }

// Dispose releases the session. Further operations return ErrDisposed.
func (s *Session) Dispose() {
	s.disposed = true
	s.wired = false
	s.pressed = false
}

// Disposed reports whether Dispose has been called.
func (s *Session) Disposed() bool { return s.disposed }

// =============================================================================
// Controller
// =============================================================================

// Default controller constants.
const (
	DefaultFitMin        = 0.24
	DefaultFitMax        = 2.2
	DefaultZoomMin       = 0.24
	DefaultZoomMax       = 2.8
	DefaultZoomFactor    = 1.15
	DefaultPadding       = 40.0
	DefaultDragThreshold = 3.0
)

// Controller applies viewport operations to sessions.
type Controller struct {
	FitMin, FitMax   float64
	ZoomMin, ZoomMax float64
	ZoomFactor       float64
	Padding          float64
	DragThreshold    float64
}

// NewController returns a controller with the default constants.
func NewController() *Controller {
	return &Controller{
		FitMin:        DefaultFitMin,
		FitMax:        DefaultFitMax,
		ZoomMin:       DefaultZoomMin,
		ZoomMax:       DefaultZoomMax,
		ZoomFactor:    DefaultZoomFactor,
		Padding:       DefaultPadding,
		DragThreshold: DefaultDragThreshold,
	}
}

// SetDefaults replaces unusable constants (non-positive or inverted ranges)
// with defaults.
func (c *Controller) SetDefaults() {
	if c.FitMin <= 0 || c.FitMax < c.FitMin {
		c.FitMin, c.FitMax = DefaultFitMin, DefaultFitMax
	}
	if c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin {
		c.ZoomMin, c.ZoomMax = DefaultZoomMin, DefaultZoomMax
	}
	if c.ZoomFactor <= 1 {
		c.ZoomFactor = DefaultZoomFactor
	}
	if c.Padding < 0 {
		c.Padding = DefaultPadding
	}
	if c.DragThreshold < 0 {
		c.DragThreshold = DefaultDragThreshold
	}
}

// FitAndCenter scales the bounding box into the viewport with padding on
// every side and centers it. The scale is clamped to [FitMin, FitMax].
// A viewport without a positive size returns ErrNotMeasured and leaves the
// transform unchanged.
func (c *Controller) FitAndCenter(s *Session, box layout.Box, size Size) error {
	if s.disposed {
		return ErrDisposed
	}
	if !(size.Width > 0) || !(size.Height > 0) {
		return ErrNotMeasured
	}

	bw, bh := max(box.Width(), 0), max(box.Height(), 0)
	k := min(size.Width/(bw+2*c.Padding), size.Height/(bh+2*c.Padding))
	if !finite(k) {
		k = 1
	}
	k = clamp(k, c.FitMin, c.FitMax)

	s.transform = Transform{
		X: size.Width/2 - k*(box.MinX+bw/2),
		Y: size.Height/2 - k*(box.MinY+bh/2),
		K: k,
	}
	return nil
}

// Pan shifts the view by a screen-space delta.
func (c *Controller) Pan(s *Session, dx, dy float64) error {
	if s.disposed {
		return ErrDisposed
	}
	if !finite(dx) || !finite(dy) {
		return nil
	}
	s.transform.X += dx
	s.transform.Y += dy
	return nil
}

// ZoomAt zooms one step in dir about the screen point p. The layout point
// under p stays under p at the clamped scale.
func (c *Controller) ZoomAt(s *Session, p Point, dir Direction) error {
	if s.disposed {
		return ErrDisposed
	}
	t := s.transform
	anchor := t.Invert(p)

	factor := c.ZoomFactor
	if dir < 0 {
		factor = 1 / factor
	}
	k := clamp(t.K*factor, c.ZoomMin, c.ZoomMax)

	s.transform = Transform{
		X: p.X - anchor.X*k,
		Y: p.Y - anchor.Y*k,
		K: k,
	}
	return nil
}

// ZoomCenter zooms one step about the center of a viewport of the given size.
func (c *Controller) ZoomCenter(s *Session, size Size, dir Direction) error {
	return c.ZoomAt(s, Point{X: size.Width / 2, Y: size.Height / 2}, dir)
}

// =============================================================================
// Pointer gestures
// =============================================================================

// PointerDown starts a gesture at screen point p.
func (c *Controller) PointerDown(s *Session, p Point) error {
	if s.disposed {
		return ErrDisposed
	}
	s.pressed = true
	s.dragged = false
	s.last = p
	s.travel = 0
	return nil
}

// PointerMove continues a gesture. Once the cumulative Manhattan movement
// since PointerDown exceeds the drag threshold the gesture becomes a pan and
// every further move shifts the view. Moves without a press are ignored.
func (c *Controller) PointerMove(s *Session, p Point) error {
	if s.disposed {
		return ErrDisposed
	}
	if !s.pressed {
		return nil
	}
	dx, dy := p.X-s.last.X, p.Y-s.last.Y
	s.travel += math.Abs(dx) + math.Abs(dy)
	s.last = p

	if !s.dragged {
		if s.travel <= c.DragThreshold {
			return nil
		}
		s.dragged = true
	}
	s.transform.X += dx
	s.transform.Y += dy
	return nil
}

// PointerUp ends a gesture and reports whether it was a click.
func (c *Controller) PointerUp(s *Session, p Point) (bool, error) {
	if s.disposed {
		return false, ErrDisposed
	}
	if !s.pressed {
		return false, nil
	}
	if err := c.PointerMove(s, p); err != nil {
		return false, err
	}
	click := !s.dragged
	s.pressed = false
	s.dragged = false
	return click, nil
}

// HitTest returns the index of the placed node under screen point p, or -1.
func (c *Controller) HitTest(s *Session, res layout.Result, p Point) (int, error) {
	if s.disposed {
		return -1, ErrDisposed
	}
	lp := s.transform.Invert(p)
	return res.At(lp.X, lp.Y), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
