package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deepgen/famtree/pkg/cache"
	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/observability"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/render"
	"github.com/deepgen/famtree/pkg/resolve"
	"github.com/deepgen/famtree/pkg/tree"
	"github.com/deepgen/famtree/pkg/viewport"
)

// Result contains the outputs of a build.
type Result struct {
	// Dataset is the person list the tree was built from.
	Dataset *Dataset

	// Root is the resolved root person.
	Root *person.Record

	Tree   *tree.Node
	Layout layout.Result
	Scene  render.Scene

	// Status is the one-line summary shown above the diagram.
	Status string

	// SceneKey identifies the scene in the cache. Empty when the dataset
	// could not be hashed, which disables artifact caching.
	SceneKey string

	Stats Stats
}

// Stats contains build statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless apart from its collaborators; it stores no
// results. Multiple goroutines can use the same Runner with different
// datasets and options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Viewport *viewport.Controller

	// TTL is how long rendered artifacts stay cached; zero means
	// cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Viewport: viewport.NewController(),
	}
}

// Build resolves the root and builds, lays out and describes the tree.
//
// An empty dataset returns an ErrCodeNoData error and a root input that
// matches nobody returns ErrCodeRootNotFound; both carry the status line to
// show the user (see errors.UserMessage). Missing parents and cyclic
// ancestry never fail a build, they show up as placeholder and cycle nodes.
func (r *Runner) Build(ctx context.Context, ds *Dataset, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, string(opts.Mode), opts.Root)

	start := time.Now()
	res, err := r.build(ctx, ds, opts)
	elapsed := time.Since(start)

	nodes := 0
	if res != nil {
		nodes = res.Stats.NodeCount
	}
	hooks.OnBuildComplete(ctx, string(opts.Mode), opts.Root, nodes, elapsed, err)
	if err != nil {
		r.Logger.Debug("build skipped", "root", opts.Root, "reason", fterrors.UserMessage(err))
		return nil, err
	}

	r.Logger.Info("built tree",
		"root", res.Root.Xref,
		"mode", opts.Mode,
		"generations", opts.Generations,
		"nodes", res.Stats.NodeCount,
		"duration", elapsed)
	return res, nil
}

func (r *Runner) build(ctx context.Context, ds *Dataset, opts Options) (*Result, error) {
	if ds.Empty() {
		return nil, fterrors.New(fterrors.ErrCodeNoData, "%s", render.StatusNoData)
	}
	xref, ok := resolve.Root(opts.Root, ds.persons)
	if !ok {
		return nil, fterrors.New(fterrors.ErrCodeRootNotFound, "%s", render.StatusRootNotFound(opts.Root))
	}
	root := ds.builder.Lookup().Get(xref)

	res := &Result{Dataset: ds, Root: root}

	buildStart := time.Now()
	maxDepth := tree.MaxDepth(opts.Generations)
	res.Tree = buildTree(ds.builder, xref, opts.Mode, maxDepth)
	res.Stats.BuildTime = time.Since(buildStart)
	res.Stats.NodeCount = tree.Count(res.Tree)

	layoutStart := time.Now()
	res.Layout = computeLayout(ctx, res.Tree, opts, maxDepth, res.Stats.NodeCount)
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.Stats.EdgeCount = len(res.Layout.Edges)

	res.Status = render.Status(root, opts.Mode, opts.Generations)
	res.Scene = render.BuildScene(res.Layout)
	res.Scene.Status = res.Status

	if ds.hash != "" {
		res.SceneKey = r.Keyer.SceneKey(ds.hash, sceneKeyOpts(xref, opts))
	}
	return res, nil
}

// Render generates artifacts for every requested format. The second return
// value reports whether all of them came from the cache.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, fterrors.New(fterrors.ErrCodeInvalidInput, "nothing to render")
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	allCached := res.SceneKey != ""

	for _, format := range opts.Formats {
		if res.SceneKey == "" {
			break
		}
		key := r.Keyer.ArtifactKey(res.SceneKey, artifactKeyOpts(format, opts))
		keys[format] = key
		if opts.Refresh {
			allCached = false
			continue
		}
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
		allCached = false
	}

	if allCached {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		r.Logger.Debug("artifacts from cache", "formats", opts.Formats)
		return artifacts, true, nil
	}

	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		data, err := r.renderFormat(ctx, res, format, opts)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data

		if key, ok := keys[format]; ok {
			if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "err", err)
			} else {
				cacheHooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	elapsed := time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, elapsed, nil)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", elapsed)
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// RerootTarget returns the xref a click on node i of res should re-root the
// tree to. Placeholders have nobody to re-root to; cycle nodes re-root to the
// repeated person.
func RerootTarget(res *Result, i int) (string, bool) {
	if res == nil || i < 0 || i >= len(res.Layout.Nodes) {
		return "", false
	}
	n := res.Layout.Nodes[i].Node
	if n.Placeholder() && !n.IsCycle() {
		return "", false
	}
	xref := n.Xref()
	if xref == "" || !res.Dataset.builder.Lookup().Has(xref) {
		return "", false
	}
	return xref, true
}

func sceneKeyOpts(xref string, opts Options) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Root:        xref,
		Mode:        string(opts.Mode),
		Generations: opts.Generations,
		NodeWidth:   opts.Layout.NodeWidth,
		NodeHeight:  opts.Layout.NodeHeight,
		HGap:        opts.Layout.HGap,
		VGap:        opts.Layout.VGap,
	}
}

func artifactKeyOpts(format string, opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatSVG {
		k.Width, k.Height = opts.ViewportWidth, opts.ViewportHeight
	}
	return k
}
