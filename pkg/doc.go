// Package pkg holds the libraries behind emind, a two-sided mind map
// renderer.
//
// # Overview
//
// A mind map starts as a tree of named nodes read from JSON or YAML. The
// root sits in the middle; its branches are split between a right and a
// left half, and each half is laid out as a tidy tree growing away from
// the root.
//
// # Architecture
//
//	tree.json / tree.yaml
//	         ↓
//	    [io] package (decode and validate)
//	         ↓
//	    [layout] package (two-sided tidy tree)
//	         ↓
//	    [scene] package (shapes, labels, curves)
//	         ↓
//	    [viewport] package (pan, zoom, auto-fit)     [export] package (PNG)
//
// [pipeline] ties these together for the CLI and the HTTP server and
// caches exported artifacts through [cache].
//
// Supporting packages:
//
//   - [config]: TOML settings with defaults
//   - [errors]: coded errors shared by every package
//   - [fonts]: embedded label font and metrics
//   - [observability]: hooks for layout, export, cache, and HTTP events
//   - [buildinfo]: version stamping
package pkg
