// Package cache stores computed layouts and rendered artifacts between runs.
//
// A year layout is a pure function of its input events, rules and display
// options, so its serialized form can be reused until any of those change.
// Keys are built by a [Keyer] from a content hash of the input plus the
// options that affect the output.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl stores it without
	// expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a computed year layout.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	Year             int    `json:"year"`
	Mode             string `json:"mode"`
	Density          string `json:"density"`
	MatchDescription bool   `json:"match_description"`
	RulesHash        string `json:"rules_hash"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format         string  `json:"format"`
	Popups         bool    `json:"popups,omitempty"`
	TooltipPadding float64 `json:"tooltip_padding,omitempty"`
	TooltipOffset  float64 `json:"tooltip_offset,omitempty"`
}

// DefaultKeyer builds "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// KeyType returns the kind prefix of a key built by DefaultKeyer.
func KeyType(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return "unknown"
}
