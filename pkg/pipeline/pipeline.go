// Package pipeline provides the core create → transform → render pipeline
// for objectgraph.
//
// This package implements the complete pipeline used by both the CLI and the
// HTTP server. By centralizing this logic, every entry point applies the same
// transforms, caching, and error classification.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Create: Build an object graph from a factory (database, GraphQL schema,
//     model document) and validate it
//  2. Transform: Filter packages, humanize names, merge relations
//  3. Render: Generate output in each requested format (PlantUML, DOT, SVG,
//     JSON) concurrently from the immutable snapshot
//
// Transformed graphs and rendered artifacts are cached under keys derived
// from the hash of the input graph, so re-rendering an unchanged schema is
// a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"puml", "svg"},
//	    Merge:   true,
//	}
//	result, err := runner.Execute(ctx, factory, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	puml := result.Artifacts["puml"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgraph/pkg/cache"
	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/objgraph/transform"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultTTL is how long cached graphs and artifacts live.
const DefaultTTL = 24 * time.Hour

// Format constants for output formats.
const (
	FormatPlantUML = "puml"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatJSON     = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPlantUML

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPlantUML: true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatJSON:     true,
}

// ContentTypes maps each format to its HTTP content type.
var ContentTypes = map[string]string{
	FormatPlantUML: "text/plain; charset=utf-8",
	FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	FormatSVG:      "image/svg+xml",
	FormatJSON:     "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Transform options
	Merge    bool     `json:"merge,omitempty"`
	Humanize bool     `json:"humanize,omitempty"`
	Include  []string `json:"include,omitempty"` // Package prefixes to keep
	Exclude  []string `json:"exclude,omitempty"` // Package prefixes to drop

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Title      string   `json:"title,omitempty"`
	HideFields bool     `json:"hide_fields,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Graph is the transformed graph the artifacts were rendered from.
	Graph *objgraph.ObjectGraph

	// GraphHash is the content hash of Graph.
	GraphHash string

	// Report describes what relation merging did. Zero when Merge is off.
	Report transform.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Objects         int
	Packages        int
	RelationsBefore int // Relations in the created graph
	RelationsAfter  int // Relations after transforms
	CreateTime      time.Duration
	TransformTime   time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TransformHit bool // Whether the transformed graph came from cache
	RenderHit    bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
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

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateTitle(o.Title); err != nil {
		return err
	}
	for _, p := range append(slices.Clone(o.Include), o.Exclude...) {
		if err := errors.ValidatePackageName(p); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Transformer returns the transform chain for these options: package
// filter, then humanizer, then relation merger. The merger is returned
// separately so callers can read its report; it is nil when Merge is off.
func (o *Options) Transformer() (objgraph.Transformer, *transform.RelationMerger) {
	var steps []objgraph.Transformer
	if len(o.Include) > 0 || len(o.Exclude) > 0 {
		steps = append(steps, transform.FilterPackages(o.Include, o.Exclude))
	}
	if o.Humanize {
		steps = append(steps, transform.Humanize())
	}
	var merger *transform.RelationMerger
	if o.Merge {
		merger = transform.NewRelationMerger(o.Logger)
		steps = append(steps, merger)
	}
	return transform.Chain(steps...), merger
}

// GraphKeyOpts returns cache key options for the transform stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Merge:    o.Merge,
		Humanize: o.Humanize,
		Include:  o.Include,
		Exclude:  o.Exclude,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Title:      o.Title,
		HideFields: o.HideFields,
	}
}

func dedupe(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		v = strings.ToLower(strings.TrimSpace(v))
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
