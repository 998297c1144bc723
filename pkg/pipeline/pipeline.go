// Package pipeline runs the family-tree engine end to end.
//
// A pipeline run resolves the root person, builds the bounded ancestor or
// descendant tree, lays it out, turns the layout into a scene, and renders
// the scene in one or more formats. The CLI, the TUI and the HTTP server all
// go through [Runner] so defaults, validation and caching behave the same
// everywhere.
//
// # Stages
//
//  1. Build: resolve root → tree → layout → scene, see [Runner.Build]
//  2. Render: scene → artifacts per format, see [Runner.Render]
//
// Building is cheap and never cached. Rendered artifacts are cached under a
// key derived from the dataset hash and every option that changes the output,
// so replacing the person list invalidates everything at once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Root: "@I1@", Generations: 4}
//	res, err := runner.Build(ctx, pipeline.NewDataset(people), opts)
//	if errors.IsEmptyState(err) {
//	    fmt.Println(errors.UserMessage(err))
//	    return
//	}
//	artifacts, hit, err := runner.Render(ctx, res, opts)
//	svg := artifacts["svg"]
package pipeline

import (
	"slices"
	"strings"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI and Server
// =============================================================================

const (
	// DefaultGenerations is the number of generations drawn, root included.
	DefaultGenerations = 4

	// DefaultViewportWidth is the screen width SVG output is fitted into.
	DefaultViewportWidth = 1200

	// DefaultViewportHeight is the screen height SVG output is fitted into.
	DefaultViewportHeight = 800
)

// DefaultMode is the tree direction used when none is given.
const DefaultMode = layout.Ancestors

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatJSON     = "json"
	FormatGraphviz = "graphviz" // DOT rendered to SVG by Graphviz
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatDOT:      true,
	FormatJSON:     true,
	FormatGraphviz: true,
}

// =============================================================================
// Options
// =============================================================================

// Options contains the configuration of one pipeline run.
type Options struct {
	// Root is the raw root input: an xref, a bracketed xref inside a label,
	// or a name fragment. See resolve.Root.
	Root string `json:"root"`

	Mode        layout.Mode `json:"mode,omitempty"`
	Generations int         `json:"generations,omitempty"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	ViewportWidth  int      `json:"viewport_width,omitempty"`
	ViewportHeight int      `json:"viewport_height,omitempty"`

	// Layout holds the node geometry. Zero values take the layout defaults.
	Layout layout.Options `json:"layout"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Generations == 0 {
		o.Generations = DefaultGenerations
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	o.Layout.SetDefaults()
}

// Validate checks the options after defaults have been applied. The mode is
// normalized in place so "Descendants" and "descendants" key the same cache
// entries.
func (o *Options) Validate() error {
	mode, err := layout.ParseMode(string(o.Mode))
	if err != nil {
		return err
	}
	o.Mode = mode

	if err := fterrors.ValidateGenerations(o.Generations); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.ViewportWidth < 0 || o.ViewportHeight < 0 {
		return fterrors.New(fterrors.ErrCodeInvalidInput, "viewport size cannot be negative")
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fterrors.New(fterrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}
