// Package pkg provides the core libraries for famtree family tree rendering.
//
// # Overview
//
// famtree turns a flat list of people, each with optional father and mother
// links, into an ancestor or descendant tree rooted at one person, lays it out
// on a canvas and renders it. The pkg directory is organized by stage:
//
//  1. [person] and [kinship] - Records and the parent/child index over them
//  2. [resolve] and [tree] - Picking the root and building the bounded tree
//  3. [layout] and [viewport] - Positions and the pan/zoom transform
//  4. [render] - The scene model plus SVG, DOT, JSON and terminal sinks
//  5. [pipeline] - Orchestration (resolve → tree → layout → render)
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML file, MongoDB or HTTP upload
//	         ↓
//	    [source] package (load people)
//	         ↓
//	    [kinship] package (index parents and children)
//	         ↓
//	    [resolve] + [tree] packages (root and bounded tree)
//	         ↓
//	    [layout] package (node and link positions)
//	         ↓
//	    [render] package (scene) → SVG/DOT/JSON/terminal
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/deepgen/famtree/pkg/pipeline"
//	    "github.com/deepgen/famtree/pkg/source"
//	)
//
//	people, _ := source.NewFile("people.json").Load(ctx)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Build(ctx, pipeline.NewDataset(people), pipeline.Options{Root: "Ada"})
//	artifacts, _, _ := runner.Render(ctx, res, pipeline.Options{Formats: []string{"svg"}})
//
// # Supporting Packages
//
// [cache] - Render cache with file, Redis and null backends.
//
// [config] - TOML configuration for the CLI and server.
//
// [server] - HTTP API over the pipeline.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [person]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/person
// [kinship]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/kinship
// [resolve]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/resolve
// [tree]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/tree
// [layout]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/viewport
// [render]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/source
// [cache]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/cache
// [config]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/config
// [server]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/server
// [errors]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/deepgen/famtree/pkg/observability
package pkg
