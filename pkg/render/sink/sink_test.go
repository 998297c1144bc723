package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/render"
	"github.com/deepgen/famtree/pkg/tree"
)

func testScene() render.Scene {
	persons := []person.Record{
		{Xref: "@I1@", Name: "Ada <Lovelace>", FatherXref: "@I2@"},
		{Xref: "@I2@", Name: "Byron", IsLiving: true},
	}
	root := tree.NewBuilder(persons, nil).Ancestors("@I1@", 1)
	s := render.BuildScene(layout.Layout(root, layout.Ancestors, 1))
	s.Status = "Ancestors of Ada (@I1@) · 2 generations"
	return s
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testScene(), WithStatus()))

	for _, want := range []string{
		"<svg",
		`viewBox="0 0 546 312"`,
		`translate(40.00 40.00) scale(1.0000)`,
		`class="node normal root"`,
		`class="node living"`,
		`class="node placeholder"`,
		`id="node-r.f"`,
		`class="edge"`,
		"Ada &lt;Lovelace&gt;",
		`class="status"`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(out, "<rect"); n != 3 {
		t.Errorf("rect count = %d, want 3", n)
	}
}

func TestRenderSVGWithTransform(t *testing.T) {
	out := string(RenderSVG(testScene(), WithViewport(800, 600), WithTransform(12.5, -3, 0.5)))
	if !strings.Contains(out, `translate(12.50 -3.00) scale(0.5000)`) {
		t.Error("transform not applied to the diagram group")
	}
	if !strings.Contains(out, `viewBox="0 0 800 600"`) {
		t.Error("viewport size not applied")
	}
	if strings.Contains(out, `class="status"`) {
		t.Error("status should only be drawn with WithStatus")
	}
}

func TestElbowPath(t *testing.T) {
	e := render.Edge{X1: 100, Y1: 200, X2: 50, Y2: 100}
	if got := elbowPath(e); got != "M100.0 200.0 V150.0 H50.0 V100.0" {
		t.Errorf("elbowPath() = %q", got)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene())

	for _, want := range []string{
		"digraph famtree {",
		"layout=neato;",
		`"r" [`,
		`pos="3.236,-2.639!"`,
		`"r" -> "r.f";`,
		`"r" -> "r.m";`,
		`style="rounded,filled,dashed"`,
		`tooltip="@I1@"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg width="800pt" viewBox="0.00 0.00 800.00 600.00">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDOTSVG(t *testing.T) {
	out, err := RenderDOTSVG(context.Background(), testScene())
	if err != nil {
		t.Fatalf("RenderDOTSVG() error: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Error("output missing <svg> tag")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testScene())
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Mode   string `json:"mode"`
		Status string `json:"status"`
		Nodes  []struct {
			Key   string   `json:"key"`
			Class string   `json:"class"`
			Lines []string `json:"lines"`
		} `json:"nodes"`
		Edges []struct{ From, To string } `json:"edges"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Mode != "ancestors" || len(out.Nodes) != 3 || len(out.Edges) != 2 {
		t.Errorf("decoded = %+v", out)
	}
	if out.Nodes[1].Class != "living" {
		t.Errorf("father class = %s", out.Nodes[1].Class)
	}

	empty, err := RenderJSON(render.Scene{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(empty), `"nodes": []`) {
		t.Errorf("empty scene should encode empty arrays, got %s", empty)
	}
}

func TestRenderTerm(t *testing.T) {
	s := testScene()
	out := RenderTerm(s, WithTermSize(70, 20), WithTermTransform(0, 0, 1))
	lines := strings.Split(out, "\n")

	if len(lines) != 20 {
		t.Fatalf("rows = %d, want 20", len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌") {
		t.Errorf("father box should start at the origin, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Byron") {
		t.Errorf("father name missing from row 1: %q", lines[1])
	}
	if !strings.Contains(out, "┄") {
		t.Error("placeholder mother should use a dashed border")
	}
	if !strings.Contains(out, "Ada <Lovelace>") {
		t.Error("root label missing")
	}
	if !strings.Contains(out, "│") {
		t.Error("edges missing")
	}
}

func TestRenderTermHighlightAndClip(t *testing.T) {
	s := testScene()
	out := RenderTerm(s, WithTermSize(40, 10), WithTermTransform(-10000, -10000, 1), WithTermHighlight("r"))
	if strings.TrimSpace(out) != "" {
		t.Errorf("panned-away scene should be blank, got %q", out)
	}

	out = RenderTerm(s, WithTermSize(80, 20), WithTermHighlight("r"))
	if !strings.Contains(out, "┏") {
		t.Error("highlighted node should use a heavy border")
	}

	tiny := RenderTerm(s, WithTermSize(20, 5), WithTermTransform(0, 0, 0.05))
	if !strings.Contains(tiny, "■") {
		t.Errorf("nodes too small for a box should be markers, got %q", tiny)
	}
}
