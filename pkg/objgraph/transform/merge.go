package transform

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// pairSep separates the two IDs of a group key. IDs are type names and never
// contain NUL.
const pairSep = "\x00"

// Report describes what [Merge] did to a graph.
type Report struct {
	// SameDirectionMerged counts groups collapsed into one
	// MERGED_ASSOCIATIONS relation.
	SameDirectionMerged int
	// BidirectionalMerged counts pairs collapsed into one
	// BIDIR_ASSOCIATION relation.
	BidirectionalMerged int
	// Unpaired lists groups between two objects that were left as-is
	// because they held more than two relations.
	Unpaired []UnpairedGroup
}

// UnpairedGroup is a diagnostic for a bidirectional group that could not be
// merged.
type UnpairedGroup struct {
	A, B      string // Endpoint IDs in sorted order
	Relations int
}

// RelationMerger consolidates redundant associations. It implements
// [objgraph.Transformer] and logs diagnostics for groups it leaves unmerged.
// A RelationMerger remembers the report of its last run and must not be
// shared between goroutines.
type RelationMerger struct {
	logger *log.Logger
	report Report
}

// NewRelationMerger creates a merger logging to logger. A nil logger
// discards diagnostics.
func NewRelationMerger(logger *log.Logger) *RelationMerger {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &RelationMerger{logger: logger}
}

// Transform runs [Merge] and returns the merged snapshot.
func (m *RelationMerger) Transform(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
	out, report, err := Merge(g)
	if err != nil {
		return nil, err
	}
	m.report = report
	m.logger.Debug("merged relations",
		"same_direction", report.SameDirectionMerged,
		"bidirectional", report.BidirectionalMerged,
		"relations_before", g.RelationCount(),
		"relations_after", out.RelationCount())
	for _, u := range report.Unpaired {
		m.logger.Warn("left relations unmerged", "a", u.A, "b", u.B, "relations", u.Relations)
	}
	return out, nil
}

// Report returns the report of the last successful Transform.
func (m *RelationMerger) Report() Report { return m.report }

// Merge applies [MergeSameDirection] followed by [MergeBidirectional]. The
// objects are carried over unchanged; inheritance relations pass through.
func Merge(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, Report, error) {
	idx, err := g.Index()
	if err != nil {
		return nil, Report{}, err
	}
	var report Report

	rels, n, err := mergeSameDirection(idx, g.Relations())
	if err != nil {
		return nil, Report{}, err
	}
	report.SameDirectionMerged = n

	rels, n, unpaired, err := mergeBidirectional(idx, rels)
	if err != nil {
		return nil, Report{}, err
	}
	report.BidirectionalMerged = n
	report.Unpaired = unpaired

	return objgraph.New(g.Objects(), rels), report, nil
}

// MergeSameDirection collapses every group of two or more associations with
// the same source and target into one MERGED_ASSOCIATIONS relation.
//
// Non-association relations keep their positions; the surviving and
// synthesized associations follow them, in the order their group was first
// seen. The merged label is the comma-joined formatted labels of the group's
// members. Applying it twice gives the same result as applying it once.
func MergeSameDirection(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
	idx, err := g.Index()
	if err != nil {
		return nil, err
	}
	rels, _, err := mergeSameDirection(idx, g.Relations())
	if err != nil {
		return nil, err
	}
	return objgraph.New(g.Objects(), rels), nil
}

// MergeBidirectional collapses every pair of associations between two
// distinct objects into one BIDIR_ASSOCIATION relation. It is meant to run
// after [MergeSameDirection], which guarantees that a pair points in opposite
// directions.
//
// The synthesized relation takes its endpoints from the first member of the
// pair in list order, has an empty label, takes the second member's
// formatted label as NearLabel and the first member's as FarLabel. Self
// references never pair up, and groups of any size other than two are left
// untouched.
func MergeBidirectional(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
	idx, err := g.Index()
	if err != nil {
		return nil, err
	}
	rels, _, _, err := mergeBidirectional(idx, g.Relations())
	if err != nil {
		return nil, err
	}
	return objgraph.New(g.Objects(), rels), nil
}

func mergeSameDirection(idx *objgraph.Index, rels []objgraph.Relation) ([]objgraph.Relation, int, error) {
	groups := groupRelations(rels, func(r objgraph.Relation) (string, bool) {
		if !r.IsAssociation() {
			return "", false
		}
		return r.ToID() + pairSep + r.FromID(), true
	})

	out := make([]objgraph.Relation, 0, len(rels))
	for _, r := range rels {
		if !r.IsAssociation() {
			out = append(out, r)
		}
	}

	merged := 0
	for _, grp := range groups {
		if len(grp) == 1 {
			out = append(out, grp[0])
			continue
		}
		r, err := mergeGroup(idx, grp)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
		merged++
	}
	return out, merged, nil
}

func mergeGroup(idx *objgraph.Index, grp []objgraph.Relation) (objgraph.Relation, error) {
	from, to, err := resolveEndpoints(idx, grp[0])
	if err != nil {
		return objgraph.Relation{}, err
	}
	labels := make([]string, len(grp))
	for i, r := range grp {
		labels[i] = r.LabelFormatted()
	}
	return objgraph.Relation{
		Type:  objgraph.MergedAssociations,
		From:  from,
		To:    to,
		Label: strings.Join(labels, ","),
	}, nil
}

func mergeBidirectional(idx *objgraph.Index, rels []objgraph.Relation) ([]objgraph.Relation, int, []UnpairedGroup, error) {
	type member struct {
		pos int
		rel objgraph.Relation
	}
	order := []string{}
	groups := make(map[string][]member)
	for i, r := range rels {
		if !r.IsAssociation() || r.IsSelfReference() {
			continue
		}
		key := unorderedKey(r.FromID(), r.ToID())
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], member{pos: i, rel: r})
	}

	removed := make(map[int]bool)
	var added []objgraph.Relation
	var unpaired []UnpairedGroup
	for _, key := range order {
		grp := groups[key]
		switch {
		case len(grp) == 2:
			first, second := grp[0].rel, grp[1].rel
			from, to, err := resolveEndpoints(idx, first)
			if err != nil {
				return nil, 0, nil, err
			}
			removed[grp[0].pos] = true
			removed[grp[1].pos] = true
			added = append(added, objgraph.Relation{
				Type:      objgraph.BidirAssociation,
				From:      from,
				To:        to,
				NearLabel: second.LabelFormatted(),
				FarLabel:  first.LabelFormatted(),
			})
		case len(grp) > 2:
			a, b, _ := strings.Cut(key, pairSep)
			unpaired = append(unpaired, UnpairedGroup{A: a, B: b, Relations: len(grp)})
		}
	}

	out := make([]objgraph.Relation, 0, len(rels)-len(removed)+len(added))
	for i, r := range rels {
		if !removed[i] {
			out = append(out, r)
		}
	}
	return append(out, added...), len(added), unpaired, nil
}

// groupRelations buckets relations by key, keeping buckets in first-seen
// order. Relations for which key reports false are skipped.
func groupRelations(rels []objgraph.Relation, key func(objgraph.Relation) (string, bool)) [][]objgraph.Relation {
	pos := make(map[string]int)
	var groups [][]objgraph.Relation
	for _, r := range rels {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := pos[k]
		if !seen {
			i = len(groups)
			pos[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}

func unorderedKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + pairSep + b
}

func resolveEndpoints(idx *objgraph.Index, r objgraph.Relation) (objgraph.Object, objgraph.Object, error) {
	from, err := idx.Resolve(r.FromID())
	if err != nil {
		return objgraph.Object{}, objgraph.Object{}, fmt.Errorf("merge %s: %w", r, err)
	}
	to, err := idx.Resolve(r.ToID())
	if err != nil {
		return objgraph.Object{}, objgraph.Object{}, fmt.Errorf("merge %s: %w", r, err)
	}
	return from, to, nil
}
