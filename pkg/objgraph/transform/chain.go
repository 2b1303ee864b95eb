package transform

import "github.com/matzehuels/objectgraph/pkg/objgraph"

// Chain composes transformers into one that applies them in order. Nil
// entries are skipped, so an empty chain is the identity.
func Chain(ts ...objgraph.Transformer) objgraph.Transformer {
	return objgraph.TransformerFunc(func(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
		var err error
		for _, t := range ts {
			if g, err = g.Transform(t); err != nil {
				return nil, err
			}
		}
		return g, nil
	})
}
