package objgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	// ErrInvalidObjectID is returned by [ObjectGraph.Validate] when an object
	// has an empty ID.
	ErrInvalidObjectID = errors.New("object ID must not be empty")

	// ErrDuplicateObjectID is returned when two objects of one graph share an
	// ID. Lookups by ID would be ambiguous, so this is a contract violation.
	ErrDuplicateObjectID = errors.New("duplicate object ID")

	// ErrUnknownEndpoint is returned when a relation endpoint does not resolve
	// to an object of the graph. It indicates a malformed upstream graph.
	ErrUnknownEndpoint = errors.New("unknown relation endpoint")

	// ErrNilObject is returned when an object mapping function yields nil for
	// an object.
	ErrNilObject = errors.New("object mapping returned nil")

	// ErrUnknownRelationType is returned by [ParseRelationType].
	ErrUnknownRelationType = errors.New("unknown relation type")

	// ErrNilFactory is returned by [Create] when no factory is supplied.
	ErrNilFactory = errors.New("factory must not be nil")
)

// Factory builds a raw graph from some model source.
type Factory interface {
	Create(ctx context.Context) (*ObjectGraph, error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(ctx context.Context) (*ObjectGraph, error)

// Create calls f(ctx).
func (f FactoryFunc) Create(ctx context.Context) (*ObjectGraph, error) { return f(ctx) }

// Transformer maps one graph snapshot to another. Implementations must not
// modify the input snapshot.
type Transformer interface {
	Transform(g *ObjectGraph) (*ObjectGraph, error)
}

// TransformerFunc adapts a function to [Transformer].
type TransformerFunc func(g *ObjectGraph) (*ObjectGraph, error)

// Transform calls f(g).
func (f TransformerFunc) Transform(g *ObjectGraph) (*ObjectGraph, error) { return f(g) }

// Renderer writes a textual representation of a graph.
type Renderer interface {
	Render(w io.Writer, g *ObjectGraph) error
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(w io.Writer, g *ObjectGraph) error

// Render calls f(w, g).
func (f RendererFunc) Render(w io.Writer, g *ObjectGraph) error { return f(w, g) }

// ObjectGraph is an immutable snapshot of objects and the relations between
// them. The object order is significant (it drives package grouping); the
// relation order is kept stable for deterministic output.
//
// The zero value is an empty graph.
type ObjectGraph struct {
	objects   []Object
	relations []Relation
}

// New creates a graph from copies of objects and relations. It performs no
// validation.
func New(objects []Object, relations []Relation) *ObjectGraph {
	return &ObjectGraph{
		objects:   slices.Clone(objects),
		relations: slices.Clone(relations),
	}
}

// Create delegates construction entirely to f.
func Create(ctx context.Context, f Factory) (*ObjectGraph, error) {
	if f == nil {
		return nil, ErrNilFactory
	}
	return f.Create(ctx)
}

// Transform applies t to g. A nil transformer is the identity and returns g
// itself.
func (g *ObjectGraph) Transform(t Transformer) (*ObjectGraph, error) {
	if t == nil {
		return g, nil
	}
	return t.Transform(g)
}

// Render lets r write into an accumulator and returns the accumulated text.
// A nil renderer yields the empty string.
func (g *ObjectGraph) Render(r Renderer) (string, error) {
	if r == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := r.Render(&sb, g); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Objects returns a copy of the objects in graph order.
func (g *ObjectGraph) Objects() []Object { return slices.Clone(g.objects) }

// Relations returns a copy of the relations in graph order.
func (g *ObjectGraph) Relations() []Relation { return slices.Clone(g.relations) }

// ObjectCount returns the number of objects.
func (g *ObjectGraph) ObjectCount() int { return len(g.objects) }

// RelationCount returns the number of relations.
func (g *ObjectGraph) RelationCount() int { return len(g.relations) }

// PackageGroup is the set of objects belonging to one package.
type PackageGroup struct {
	Name    string
	Objects []Object
}

// ObjectsGroupedByPackage groups objects by package in a single pass. Groups
// appear in the order their package is first seen, and members keep the
// graph's object order.
func (g *ObjectGraph) ObjectsGroupedByPackage() []PackageGroup {
	pos := make(map[string]int)
	var groups []PackageGroup
	for _, o := range g.objects {
		i, ok := pos[o.Package]
		if !ok {
			i = len(groups)
			pos[o.Package] = i
			groups = append(groups, PackageGroup{Name: o.Package})
		}
		groups[i].Objects = append(groups[i].Objects, o)
	}
	return groups
}

// Packages returns the distinct package names in first-seen order.
func (g *ObjectGraph) Packages() []string {
	groups := g.ObjectsGroupedByPackage()
	names := make([]string, len(groups))
	for i, grp := range groups {
		names[i] = grp.Name
	}
	return names
}

// ObjectByID returns a lookup table from ID to object. Returns
// ErrDuplicateObjectID if two objects share an ID.
func (g *ObjectGraph) ObjectByID() (map[string]Object, error) {
	m := make(map[string]Object, len(g.objects))
	for _, o := range g.objects {
		if _, exists := m[o.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateObjectID, o.ID)
		}
		m[o.ID] = o
	}
	return m, nil
}

// Validate checks that object IDs are non-empty and unique and that every
// relation endpoint resolves to an object of g.
func (g *ObjectGraph) Validate() error {
	ids := make(map[string]struct{}, len(g.objects))
	for i, o := range g.objects {
		if o.ID == "" {
			return fmt.Errorf("%w: object #%d", ErrInvalidObjectID, i)
		}
		if _, exists := ids[o.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateObjectID, o.ID)
		}
		ids[o.ID] = struct{}{}
	}
	for _, r := range g.relations {
		if _, ok := ids[r.FromID()]; !ok {
			return fmt.Errorf("%w: %s (from of %s)", ErrUnknownEndpoint, r.FromID(), r)
		}
		if _, ok := ids[r.ToID()]; !ok {
			return fmt.Errorf("%w: %s (to of %s)", ErrUnknownEndpoint, r.ToID(), r)
		}
	}
	return nil
}

// Stats summarizes the size of a graph.
type Stats struct {
	Objects      int
	Packages     int
	Relations    int
	Associations int
	ByType       map[RelationType]int
}

// Stats counts objects, packages and relations per type.
func (g *ObjectGraph) Stats() Stats {
	s := Stats{
		Objects:   len(g.objects),
		Packages:  len(g.ObjectsGroupedByPackage()),
		Relations: len(g.relations),
		ByType:    make(map[RelationType]int),
	}
	for _, r := range g.relations {
		s.ByType[r.Type]++
		if r.IsAssociation() {
			s.Associations++
		}
	}
	return s
}
