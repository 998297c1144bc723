package viewport

import (
	"errors"
	"math"
	"testing"

	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/tree"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 12, Y: -7, K: 1.5}
	p := Point{X: 100, Y: 40}

	s := tr.Apply(p)
	if s != (Point{X: 162, Y: 53}) {
		t.Errorf("Apply = %+v", s)
	}
	if back := tr.Invert(s); !near(back.X, p.X) || !near(back.Y, p.Y) {
		t.Errorf("Invert(Apply(p)) = %+v, want %+v", back, p)
	}
}

func TestFitAndCenter(t *testing.T) {
	c := NewController()

	t.Run("wide box", func(t *testing.T) {
		s := NewSession()
		box := layout.Box{MaxX: 1000, MaxY: 400}
		if err := c.FitAndCenter(s, box, Size{Width: 800, Height: 600}); err != nil {
			t.Fatal(err)
		}
		tr := s.Transform()
		wantK := 800.0 / 1080.0
		if !near(tr.K, wantK) {
			t.Errorf("K = %v, want %v", tr.K, wantK)
		}
		if !near(tr.X, 400-wantK*500) || !near(tr.Y, 300-wantK*200) {
			t.Errorf("translation = (%v, %v)", tr.X, tr.Y)
		}
		center := tr.Apply(Point{X: 500, Y: 200})
		if !near(center.X, 400) || !near(center.Y, 300) {
			t.Errorf("box center maps to %+v, want viewport center", center)
		}
	})

	t.Run("tiny box clamps to fit max", func(t *testing.T) {
		s := NewSession()
		if err := c.FitAndCenter(s, layout.Box{MaxX: 10, MaxY: 10}, Size{Width: 800, Height: 600}); err != nil {
			t.Fatal(err)
		}
		if s.Transform().K != DefaultFitMax {
			t.Errorf("K = %v, want %v", s.Transform().K, DefaultFitMax)
		}
	})

	t.Run("huge box clamps to fit min", func(t *testing.T) {
		s := NewSession()
		if err := c.FitAndCenter(s, layout.Box{MaxX: 100000, MaxY: 100}, Size{Width: 800, Height: 600}); err != nil {
			t.Fatal(err)
		}
		if s.Transform().K != DefaultFitMin {
			t.Errorf("K = %v, want %v", s.Transform().K, DefaultFitMin)
		}
	})

	t.Run("offset box", func(t *testing.T) {
		s := NewSession()
		box := layout.Box{MinX: -300, MinY: 50, MaxX: 300, MaxY: 250}
		if err := c.FitAndCenter(s, box, Size{Width: 800, Height: 600}); err != nil {
			t.Fatal(err)
		}
		center := s.Transform().Apply(Point{X: box.CenterX(), Y: box.CenterY()})
		if !near(center.X, 400) || !near(center.Y, 300) {
			t.Errorf("box center maps to %+v", center)
		}
	})

	t.Run("unmeasured viewport", func(t *testing.T) {
		s := NewSession()
		for _, size := range []Size{{0, 600}, {800, 0}, {-1, -1}, {math.NaN(), 10}} {
			if err := c.FitAndCenter(s, layout.Box{MaxX: 10, MaxY: 10}, size); !errors.Is(err, ErrNotMeasured) {
				t.Errorf("size %+v: err = %v, want ErrNotMeasured", size, err)
			}
		}
		if s.Transform() != Identity {
			t.Error("transform should be unchanged")
		}
	})

	t.Run("empty box", func(t *testing.T) {
		s := NewSession()
		if err := c.FitAndCenter(s, layout.Box{}, Size{Width: 800, Height: 600}); err != nil {
			t.Fatal(err)
		}
		if k := s.Transform().K; !finite(k) || k < DefaultFitMin || k > DefaultFitMax {
			t.Errorf("K = %v out of range", k)
		}
	})
}

func TestPan(t *testing.T) {
	c := NewController()
	s := NewSession()
	_ = c.Pan(s, 10, -4)
	_ = c.Pan(s, 5, 4)
	if got := s.Transform(); got != (Transform{X: 15, Y: 0, K: 1}) {
		t.Errorf("Transform = %+v", got)
	}
}

func TestZoomAtKeepsPointUnderCursor(t *testing.T) {
	c := NewController()
	s := NewSession()
	_ = s.SetTransform(Transform{X: 30, Y: -20, K: 0.8})

	cursor := Point{X: 420, Y: 260}
	anchor := s.Transform().Invert(cursor)

	for i := 0; i < 5; i++ {
		if err := c.ZoomAt(s, cursor, ZoomIn); err != nil {
			t.Fatal(err)
		}
		got := s.Transform().Apply(anchor)
		if !near(got.X, cursor.X) || !near(got.Y, cursor.Y) {
			t.Fatalf("step %d: anchor maps to %+v, want %+v", i, got, cursor)
		}
	}
	if k := s.Transform().K; k > DefaultZoomMax {
		t.Errorf("K = %v exceeds zoom max", k)
	}
}

func TestZoomAtClampBoundary(t *testing.T) {
	c := NewController()
	s := NewSession()
	start := Transform{X: 0, Y: 0, K: 2.7}
	_ = s.SetTransform(start)

	cursor := Point{X: 200, Y: 100}
	anchor := start.Invert(cursor)

	if err := c.ZoomAt(s, cursor, ZoomIn); err != nil {
		t.Fatal(err)
	}
	tr := s.Transform()
	if tr.K != DefaultZoomMax {
		t.Fatalf("K = %v, want clamp %v", tr.K, DefaultZoomMax)
	}
	if got := tr.Apply(anchor); !near(got.X, cursor.X) || !near(got.Y, cursor.Y) {
		t.Errorf("anchor maps to %+v at clamped scale, want %+v", got, cursor)
	}

	// Translating with the unclamped scale would have drifted the anchor.
	unclamped := 2.7 * DefaultZoomFactor
	drift := Transform{X: cursor.X - anchor.X*unclamped, Y: cursor.Y - anchor.Y*unclamped, K: tr.K}
	if got := drift.Apply(anchor); near(got.X, cursor.X) {
		t.Error("expected the unclamped translation to move the anchor")
	}
}

func TestZoomOutAtClampBoundary(t *testing.T) {
	c := NewController()
	s := NewSession()
	start := Transform{X: 30, Y: -20, K: 0.25}
	_ = s.SetTransform(start)

	cursor := Point{X: 100, Y: 60}
	anchor := start.Invert(cursor)

	if err := c.ZoomAt(s, cursor, ZoomOut); err != nil {
		t.Fatal(err)
	}
	tr := s.Transform()
	if tr.K != DefaultZoomMin {
		t.Fatalf("K = %v, want clamp %v", tr.K, DefaultZoomMin)
	}
	if got := tr.Apply(anchor); !near(got.X, cursor.X) || !near(got.Y, cursor.Y) {
		t.Errorf("anchor maps to %+v at clamped scale, want %+v", got, cursor)
	}

	// A second zoom out at the floor changes nothing.
	if err := c.ZoomAt(s, cursor, ZoomOut); err != nil {
		t.Fatal(err)
	}
	if got := s.Transform(); !near(got.X, tr.X) || !near(got.Y, tr.Y) || got.K != tr.K {
		t.Errorf("zoom out at the floor moved the view: %+v -> %+v", tr, got)
	}
}

func TestZoomOutClamp(t *testing.T) {
	c := NewController()
	s := NewSession()
	for i := 0; i < 50; i++ {
		_ = c.ZoomCenter(s, Size{Width: 800, Height: 600}, ZoomOut)
	}
	if k := s.Transform().K; k != DefaultZoomMin {
		t.Errorf("K = %v, want %v", k, DefaultZoomMin)
	}
}

func TestDragThreshold(t *testing.T) {
	c := NewController()

	t.Run("small movement is a click", func(t *testing.T) {
		s := NewSession()
		_ = c.PointerDown(s, Point{0, 0})
		_ = c.PointerMove(s, Point{1, 1})
		click, err := c.PointerUp(s, Point{2, 1})
		if err != nil {
			t.Fatal(err)
		}
		if !click {
			t.Error("3px of movement should still be a click")
		}
		if s.Transform() != Identity {
			t.Errorf("click should not pan, got %+v", s.Transform())
		}
	})

	t.Run("movement past threshold pans", func(t *testing.T) {
		s := NewSession()
		_ = c.PointerDown(s, Point{0, 0})
		_ = c.PointerMove(s, Point{2, 1})
		if s.Dragging() {
			t.Fatal("should not be dragging at the threshold")
		}
		_ = c.PointerMove(s, Point{3, 1})
		if !s.Dragging() {
			t.Fatal("should be dragging past the threshold")
		}
		_ = c.PointerMove(s, Point{13, 6})
		click, _ := c.PointerUp(s, Point{13, 6})
		if click {
			t.Error("drag should not be a click")
		}
		if got := s.Transform(); got.X != 11 || got.Y != 5 {
			t.Errorf("pan = (%v, %v), want (11, 5)", got.X, got.Y)
		}
	})

	t.Run("move without press", func(t *testing.T) {
		s := NewSession()
		_ = c.PointerMove(s, Point{50, 50})
		if s.Transform() != Identity {
			t.Error("hover should not pan")
		}
		if click, _ := c.PointerUp(s, Point{50, 50}); click {
			t.Error("release without press is not a click")
		}
	})
}

func TestHitTest(t *testing.T) {
	persons := []person.Record{{Xref: "C", FatherXref: "F"}, {Xref: "F"}}
	res := layout.Layout(tree.NewBuilder(persons, nil).Ancestors("C", 1), layout.Ancestors, 1)

	c := NewController()
	s := NewSession()
	_ = s.SetTransform(Transform{X: 100, Y: 100, K: 0.5})

	// Father sits at layout (0,0)-(220,84); on screen (100,100)-(210,142).
	i, err := c.HitTest(s, res, Point{X: 150, Y: 120})
	if err != nil {
		t.Fatal(err)
	}
	if i < 0 || res.Nodes[i].Node.Key != "r.f" {
		t.Errorf("HitTest = %d, want father", i)
	}
	if i, _ := c.HitTest(s, res, Point{X: 5, Y: 5}); i != -1 {
		t.Errorf("HitTest on background = %d, want -1", i)
	}
}

func TestSessionLifecycle(t *testing.T) {
	c := NewController()
	s := NewSession()
	other := NewSession()

	if s.ID == "" || s.ID == other.ID {
		t.Errorf("session IDs should be unique, got %q and %q", s.ID, other.ID)
	}
	if !s.Wire() {
		t.Error("first Wire should attach")
	}
	if s.Wire() {
		t.Error("second Wire should not attach again")
	}

	s.Dispose()
	if !s.Disposed() || s.Wired() {
		t.Error("Dispose should clear wiring")
	}

	ops := map[string]error{
		"pan":  c.Pan(s, 1, 1),
		"zoom": c.ZoomAt(s, Point{}, ZoomIn),
		"fit":  c.FitAndCenter(s, layout.Box{MaxX: 1, MaxY: 1}, Size{10, 10}),
		"down": c.PointerDown(s, Point{}),
		"set":  s.SetTransform(Identity),
	}
	for name, err := range ops {
		if !errors.Is(err, ErrDisposed) {
			t.Errorf("%s: err = %v, want ErrDisposed", name, err)
		}
	}
	if _, err := c.PointerUp(s, Point{}); !errors.Is(err, ErrDisposed) {
		t.Errorf("up: err = %v", err)
	}
	if s.Wire() {
		t.Error("disposed session should not wire")
	}
}

func TestSetTransformRejectsBadScale(t *testing.T) {
	s := NewSession()
	for _, k := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := s.SetTransform(Transform{K: k}); err == nil {
			t.Errorf("SetTransform(K=%v) should fail", k)
		}
	}
}

func TestControllerSetDefaults(t *testing.T) {
	c := &Controller{FitMin: 3, FitMax: 1, ZoomFactor: 0.5, Padding: -1, DragThreshold: -2}
	c.SetDefaults()
	if *c != *NewController() {
		t.Errorf("SetDefaults() = %+v", *c)
	}
}
