package sink

import (
	"encoding/json"

	"github.com/deepgen/famtree/pkg/render"
)

// RenderJSON serializes the scene as indented JSON.
func RenderJSON(s render.Scene) ([]byte, error) {
	if s.Nodes == nil {
		s.Nodes = []render.Node{}
	}
	if s.Edges == nil {
		s.Edges = []render.Edge{}
	}
	return json.MarshalIndent(s, "", "  ")
}
