package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mhertel/xdsmview/pkg/cache"
	"github.com/mhertel/xdsmview/pkg/render"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.DiagramCount = len(doc)
	if root, ok := doc.Root(); ok {
		result.Stats.NodeCount = root.NodeCount()
		result.Stats.EdgeCount = root.EdgeCount()
	}

	// Compute document hash for cache keys and API responses
	if data, err := xdsm.Marshal(doc); err == nil {
		result.DocumentHash = cache.Hash(data)
	}

	r.Logger.Info("loaded document",
		"run", result.RunID,
		"diagrams", result.Stats.DiagramCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	tree, err := r.Resolve(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Tree = tree
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Depth = tree.Depth()

	r.Logger.Info("resolved subdiagrams",
		"depth", result.Stats.Depth,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, tree, doc, result.DocumentHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the document named by opts.Path.
func (r *Runner) Load(ctx context.Context, opts Options) (xdsm.Document, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	return xdsm.ReadFile(opts.Path)
}

// Resolve expands subdiagram references starting from opts.Root.
func (r *Runner) Resolve(ctx context.Context, doc xdsm.Document, opts Options) (*xdsm.Tree, error) {
	opts.SetResolveDefaults()
	return doc.ResolveFrom(opts.Root)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The docHash keys the artifact cache; pass the hash of the document
// the tree was resolved from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tree *xdsm.Tree, doc xdsm.Document, docHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	allCached := docHash != "" && !opts.Refresh
	artifacts := make(map[string][]byte)
	if allCached {
		for _, format := range opts.Formats {
			key := r.artifactKey(docHash, format, opts)
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	// Render all formats
	rendered, err := r.renderFormats(ctx, tree, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if docHash != "" {
		for format, data := range rendered {
			key := r.artifactKey(docHash, format, opts)
			_ = r.Cache.Set(ctx, key, data, TTLArtifact)
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, tree *xdsm.Tree, doc xdsm.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, tree, doc, "", opts)
	return artifacts, err
}

// renderFormats produces each requested format from the resolved tree.
func (r *Runner) renderFormats(ctx context.Context, tree *xdsm.Tree, doc xdsm.Document, opts Options) (map[string][]byte, error) {
	renderOpts := render.Options{
		ShowVariables: opts.ShowVariables,
		Statuses:      opts.Statuses,
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	// DOT is the base representation; compute it once when any graphical
	// format is requested.
	var dot string
	needDOT := false
	for _, f := range opts.Formats {
		if f == FormatDOT || f == FormatSVG || f == FormatPNG {
			needDOT = true
		}
	}
	if needDOT {
		dot = render.ToDOT(tree, renderOpts)
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			data, err := render.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := render.RenderPNG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		case FormatJSON:
			data, err := xdsm.Marshal(doc)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

// artifactKey builds the cache key for a rendered artifact.
func (r *Runner) artifactKey(docHash, format string, opts Options) string {
	return cache.Key("artifact", docHash, opts.Root, format,
		fmt.Sprintf("vars=%t", opts.ShowVariables),
		fmt.Sprintf("status=%t", opts.Statuses))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
