package cache

import "sort"

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// GraphKey identifies a transformed graph by the hash of its input graph
	// and the transforms applied.
	GraphKey(inputHash string, opts GraphKeyOpts) string
	// ArtifactKey identifies a rendered artifact by the hash of the graph it
	// was rendered from.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts lists the options that change a transformed graph.
type GraphKeyOpts struct {
	Merge    bool
	Humanize bool
	Include  []string
	Exclude  []string
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string
	Title      string
	HideFields bool
}

// DefaultKeyer produces "graph:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey implements [Keyer]. Include and exclude order does not matter.
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts.Merge, opts.Humanize, sorted(opts.Include), sorted(opts.Exclude))
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts.Format, opts.Title, opts.HideFields)
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
