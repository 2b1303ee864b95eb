package transform

import (
	"fmt"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// ObjectModifier applies a mapping function to every object of a graph.
type ObjectModifier struct {
	fn func(objgraph.Object) *objgraph.Object
}

// Modify returns a transformer replacing each object o with *fn(o).
//
// fn must return a non-nil object for every input; a nil result aborts the
// transform with objgraph.ErrNilObject, and two results sharing an ID abort
// it with objgraph.ErrDuplicateObjectID. fn should keep the ID stable: relation
// endpoints are rebound to the mapped object with the same ID, and later
// passes such as [Merge] resolve endpoints by ID against the new object set.
func Modify(fn func(objgraph.Object) *objgraph.Object) *ObjectModifier {
	return &ObjectModifier{fn: fn}
}

// Transform implements [objgraph.Transformer].
func (m *ObjectModifier) Transform(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
	objects := g.Objects()
	byID := make(map[string]objgraph.Object, len(objects))
	for i, o := range objects {
		mapped := m.fn(o)
		if mapped == nil {
			return nil, fmt.Errorf("%w: %s", objgraph.ErrNilObject, o.ID)
		}
		if _, dup := byID[mapped.ID]; dup {
			return nil, fmt.Errorf("%w: %s", objgraph.ErrDuplicateObjectID, mapped.ID)
		}
		objects[i] = *mapped
		byID[mapped.ID] = *mapped
	}

	rels := g.Relations()
	for i := range rels {
		if o, ok := byID[rels[i].FromID()]; ok {
			rels[i].From = o
		}
		if o, ok := byID[rels[i].ToID()]; ok {
			rels[i].To = o
		}
	}
	return objgraph.New(objects, rels), nil
}
