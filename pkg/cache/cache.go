// Package cache stores pipeline results keyed by content hashes.
//
// Four backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for shared deployments of the HTTP service, and [NullCache]
// to disable caching. Keys are produced by a [Keyer] so that every entry is
// addressed by the hash of its input plus the options that shaped it.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry this cache owns and returns how many.
	Clear(ctx context.Context) (int, error)

	// Close releases connections held by the backend.
	Close() error
}

// Entry lifetimes per pipeline stage. Parsed and resolved models depend only
// on their input bytes, so they live longer than rendered artifacts.
const (
	TTLSurvey   = 7 * 24 * time.Hour
	TTLResolved = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Namespace prefixes every key written by the shared backends so Clear can
// find them.
const Namespace = "floorstack:"

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// SurveyKey addresses a parsed survey by the hash of its input.
	SurveyKey(inputHash, format string) string

	// ResolveKey addresses a resolved building by survey hash and options.
	ResolveKey(surveyHash string, opts ResolveKeyOpts) string

	// ArtifactKey addresses a rendered artifact by resolved hash and format.
	ArtifactKey(resolvedHash string, opts ArtifactKeyOpts) string
}

// ResolveKeyOpts are the resolve options that change the resolved model.
type ResolveKeyOpts struct {
	Strict          bool   `json:"strict"`
	UnknownFixtures string `json:"unknown_fixtures"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SurveyKey returns "survey:<hash>".
func (DefaultKeyer) SurveyKey(inputHash, format string) string {
	return hashKey("survey", inputHash, format)
}

// ResolveKey returns "resolve:<hash>".
func (DefaultKeyer) ResolveKey(surveyHash string, opts ResolveKeyOpts) string {
	return hashKey("resolve", surveyHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(resolvedHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resolvedHash, opts)
}
