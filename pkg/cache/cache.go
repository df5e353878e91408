// Package cache stores rendered artifacts keyed by content hash.
//
// Two backends are provided: [FileCache] for the CLI and the HTTP server,
// and [NullCache] when caching is disabled. Keys are built by a [Keyer] so
// the same tree and options always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies the layout JSON of a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies an exported image or document of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the tree that change a layout.
type LayoutKeyOpts struct {
	Options any `json:"options"`
}

// ArtifactKeyOpts are the inputs besides the tree that change an export.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout any    `json:"layout"`
	Theme  any    `json:"theme"`
	Export any    `json:"export"`
}

// DefaultKeyer hashes the key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
