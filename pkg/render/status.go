package render

import (
	"fmt"
	"strings"

	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/person"
)

// StatusNoData is shown when no person list has been loaded.
const StatusNoData = "No people loaded. Load a person list first."

// StatusRootNotFound is shown when the root input resolves to nobody.
func StatusRootNotFound(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return "Choose a root person to draw the tree."
	}
	return fmt.Sprintf("No person matches %q.", input)
}

// Status summarizes the current diagram, e.g.
//
//	Ancestors of Ada Lovelace (@I1@) · 4 generations
func Status(root *person.Record, mode layout.Mode, generations int) string {
	label := "Ancestors"
	if mode == layout.Descendants {
		label = "Descendants"
	}
	unit := "generations"
	if generations == 1 {
		unit = "generation"
	}
	return fmt.Sprintf("%s of %s (%s) · %d %s", label, root.DisplayName(), root.Xref, generations, unit)
}
