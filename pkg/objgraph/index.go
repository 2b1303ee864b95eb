package objgraph

import "fmt"

// Index is an arena view over the objects of a graph: the objects in a dense
// slice plus an ID-to-position map. Transformers build it once per
// invocation instead of rebuilding a lookup table per pass.
type Index struct {
	objects []Object
	pos     map[string]int
}

// Index builds an index over g. Returns ErrDuplicateObjectID if two objects
// share an ID.
func (g *ObjectGraph) Index() (*Index, error) {
	idx := &Index{
		objects: g.objects,
		pos:     make(map[string]int, len(g.objects)),
	}
	for i, o := range g.objects {
		if _, exists := idx.pos[o.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateObjectID, o.ID)
		}
		idx.pos[o.ID] = i
	}
	return idx, nil
}

// Lookup returns the object with the given ID.
func (x *Index) Lookup(id string) (Object, bool) {
	i, ok := x.pos[id]
	if !ok {
		return Object{}, false
	}
	return x.objects[i], true
}

// Resolve returns the object with the given ID, or ErrUnknownEndpoint.
func (x *Index) Resolve(id string) (Object, error) {
	o, ok := x.Lookup(id)
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, id)
	}
	return o, nil
}

// Len returns the number of indexed objects.
func (x *Index) Len() int { return len(x.objects) }
