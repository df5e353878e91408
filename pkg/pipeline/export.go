package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"time"

	"github.com/Gor-c/emind/pkg/cache"
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/export"
	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/observability"
	"github.com/Gor-c/emind/pkg/tree"
)

// ExportImage rasterizes the current diagram to PNG. The live transform
// has no effect on the result.
//
// Images are cached by tree contents and the layout, theme, and export
// settings. It fails with [errors.ErrCodeNotRendered] before the first
// successful render.
func (r *Runner) ExportImage(ctx context.Context) (*export.Result, error) {
	d := r.diagram
	if d == nil {
		return nil, errors.New(errors.ErrCodeNotRendered, "export called before a successful render")
	}

	id := d.ID.String()
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, id)
	start := time.Now()

	res, err := r.exportImage(ctx, d)
	size := 0
	if res != nil {
		size = len(res.PNG)
	}
	hooks.OnExportComplete(ctx, id, size, time.Since(start), err)
	if err != nil {
		r.Logger.Error("export failed", "id", d.ID, "err", err)
		return nil, err
	}

	r.Logger.Info("exported image",
		"id", d.ID,
		"file", res.Name,
		"width", res.Width,
		"height", res.Height,
		"cached", res.Cached,
		"duration", time.Since(start))
	return res, nil
}

func (r *Runner) exportImage(ctx context.Context, d *Diagram) (*export.Result, error) {
	key, keyErr := r.artifactKey(d.Root, FormatPNG)
	if keyErr == nil {
		if res, ok := r.cachedImage(ctx, d, key); ok {
			observability.Cache().OnCacheHit(ctx, FormatPNG)
			return res, nil
		}
		observability.Cache().OnCacheMiss(ctx, FormatPNG)
	}

	res, err := r.exporter.Export(ctx, d.Scene, d.Name())
	if err != nil {
		return nil, err
	}
	if keyErr == nil {
		r.store(ctx, key, FormatPNG, res.PNG)
	}
	return res, nil
}

// cachedImage rebuilds a Result around cached PNG bytes. The export
// document is regenerated since it is cheap and deterministic.
func (r *Runner) cachedImage(ctx context.Context, d *Diagram, key string) (*export.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	p, err := export.Prepare(d.Scene, r.measurer, r.cfg.Export)
	if err != nil {
		return nil, false
	}
	doc, err := export.Serialize(p)
	if err != nil {
		return nil, false
	}
	return &export.Result{
		Name:    export.FileName(r.cfg.Export.Prefix, d.Name()),
		PNG:     data,
		SVG:     doc,
		Width:   cfg.Width,
		Height:  cfg.Height,
		OffsetX: p.OffsetX,
		OffsetY: p.OffsetY,
		Box:     p.Box,
		Cached:  true,
	}, true
}

// ExportDocument returns the standalone vector document the PNG export is
// decoded from.
func (r *Runner) ExportDocument() ([]byte, error) {
	d := r.diagram
	if d == nil {
		return nil, errors.New(errors.ErrCodeNotRendered, "export called before a successful render")
	}
	p, err := export.Prepare(d.Scene, r.measurer, r.cfg.Export)
	if err != nil {
		return nil, err
	}
	return export.Serialize(p)
}

// LayoutJSON lays out root and returns the layout as JSON. It does not
// touch the current diagram. The bool reports a cache hit.
func (r *Runner) LayoutJSON(ctx context.Context, root *tree.Node) ([]byte, bool, error) {
	treeHash, err := cache.HashJSON(root)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash tree")
	}
	key := r.Keyer.LayoutKey(treeHash, cache.LayoutKeyOpts{Options: r.cfg.Layout})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, FormatLayout)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, FormatLayout)

	hooks := observability.Pipeline()
	nodes := tree.Count(root)
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()
	l, err := layout.Compute(root, r.cfg.Layout)
	hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("layout: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	r.store(ctx, key, FormatLayout, data)
	return data, false, nil
}

func (r *Runner) artifactKey(root *tree.Node, format string) (string, error) {
	treeHash, err := cache.HashJSON(root)
	if err != nil {
		return "", err
	}
	return r.Keyer.ArtifactKey(treeHash, cache.ArtifactKeyOpts{
		Format: format,
		Layout: r.cfg.Layout,
		Theme:  r.cfg.Theme,
		Export: r.cfg.Export,
	}), nil
}

// store writes to the cache. Cache failures only cost a recompute, so they
// are logged and dropped.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.cfg.Cache.TTL); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
