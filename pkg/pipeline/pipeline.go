// Package pipeline provides the survey processing pipeline for floorstack.
//
// This package implements the complete parse → resolve → render pipeline used
// by both the CLI and the HTTP service, so that caching, validation and
// defaults behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode a RoomScan XML export or a JSON survey
//  2. Resolve: Convert the survey into world-space rooms, walls and fixtures
//  3. Render: Produce artifacts (resolved JSON, adjacency DOT, adjacency SVG)
//
// Each stage is cached by content hash and can be run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:    data,
//	    Filename: "house.xml",
//	    Formats:  []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorstack/pkg/adjacency"
	"github.com/matzehuels/floorstack/pkg/cache"
	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/resolve"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Input    []byte `json:"-"`
	Format   string `json:"format,omitempty"`   // "roomscan" or "json"; detected from Filename when empty
	Filename string `json:"filename,omitempty"` // used for format detection and logs
	Refresh  bool   `json:"refresh,omitempty"`  // bypass cached results

	// Resolve options
	Strict          bool   `json:"strict,omitempty"`
	UnknownFixtures string `json:"unknown_fixtures,omitempty"`
	Concurrency     int    `json:"concurrency,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Survey is the parsed input.
	Survey *survey.Building

	// Building is the resolved model.
	Building *resolve.Building

	// Graph is the room connectivity graph.
	Graph *adjacency.Graph

	// SurveyHash and ResolvedHash are content hashes of the stage outputs.
	SurveyHash   string
	ResolvedHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	resolve.Counts
	Diagnostics int
	ParseTime   time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit   bool // Whether the parsed survey came from cache
	ResolveHit bool // Whether the resolved building came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: json, dot, svg)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input and settles its format.
func (o *Options) ValidateForParse() error {
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input is empty")
	}
	if o.Format == "" {
		if o.Filename == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "format is required when no filename is given")
		}
		f, err := errors.DetectInputFormat(o.Filename)
		if err != nil {
			return err
		}
		o.Format = f
	}
	if err := errors.ValidateInputFormat(o.Format); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForResolve validates and sets defaults for resolution.
func (o *Options) ValidateForResolve() error {
	if o.UnknownFixtures == "" {
		o.UnknownFixtures = resolve.DefaultUnknownFixtures
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "concurrency must not be negative")
	}
	o.setLogger()
	return resolve.ValidateUnknownFixtures(o.UnknownFixtures)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResolveOptions returns the resolver options for this run.
func (o *Options) ResolveOptions() resolve.Options {
	return resolve.Options{
		Strict:          o.Strict,
		UnknownFixtures: o.UnknownFixtures,
		Concurrency:     o.Concurrency,
		Logger:          o.Logger,
	}
}

// ResolveKeyOpts returns cache key options for resolution.
func (o *Options) ResolveKeyOpts() cache.ResolveKeyOpts {
	return cache.ResolveKeyOpts{
		Strict:          o.Strict,
		UnknownFixtures: o.UnknownFixtures,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed && format != FormatJSON,
	}
}

// String describes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("format=%s strict=%t unknown_fixtures=%s formats=%v", o.Format, o.Strict, o.UnknownFixtures, o.Formats)
}
