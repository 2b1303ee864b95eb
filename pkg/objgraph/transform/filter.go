package transform

import (
	"strings"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// PackageFilter drops objects by package and every relation that touches a
// dropped object.
type PackageFilter struct {
	include []string
	exclude []string
}

// FilterPackages keeps an object when its package matches one of include (or
// include is empty) and matches none of exclude. A pattern matches the
// package itself and every package nested below it, so "com.acme" matches
// "com.acme" and "com.acme.orders" but not "com.acmex".
func FilterPackages(include, exclude []string) *PackageFilter {
	return &PackageFilter{include: include, exclude: exclude}
}

// Transform implements [objgraph.Transformer].
func (f *PackageFilter) Transform(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
	kept := make(map[string]bool)
	var objects []objgraph.Object
	for _, o := range g.Objects() {
		if f.keep(o.Package) {
			objects = append(objects, o)
			kept[o.ID] = true
		}
	}

	var rels []objgraph.Relation
	for _, r := range g.Relations() {
		if kept[r.FromID()] && kept[r.ToID()] {
			rels = append(rels, r)
		}
	}
	return objgraph.New(objects, rels), nil
}

func (f *PackageFilter) keep(pkg string) bool {
	if len(f.include) > 0 && !matchesAny(pkg, f.include) {
		return false
	}
	return !matchesAny(pkg, f.exclude)
}

func matchesAny(pkg string, patterns []string) bool {
	for _, p := range patterns {
		if pkg == p || strings.HasPrefix(pkg, p+".") || strings.HasPrefix(pkg, p+"/") {
			return true
		}
	}
	return false
}
