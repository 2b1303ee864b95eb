package graphql

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// DefaultPackage is assigned to objects when Options.Package is empty.
const DefaultPackage = "graphql"

// Options configures schema conversion.
type Options struct {
	// Package is assigned to every object.
	Package string
	// IncludeRoots keeps the Query, Mutation and Subscription types.
	IncludeRoots bool
}

// Factory converts GraphQL SDL into a graph. It implements
// [objgraph.Factory].
type Factory struct {
	load func() ([]*ast.Source, error)
	opts Options
}

// FromFiles creates a factory reading the given schema files. Files are read
// on every Create call.
func FromFiles(opts Options, paths ...string) *Factory {
	return &Factory{opts: opts, load: func() ([]*ast.Source, error) {
		sources := make([]*ast.Source, 0, len(paths))
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("read schema: %w", err)
			}
			sources = append(sources, &ast.Source{Name: p, Input: string(data)})
		}
		return sources, nil
	}}
}

// FromString creates a factory over an in-memory schema.
func FromString(name, sdl string, opts Options) *Factory {
	return &Factory{opts: opts, load: func() ([]*ast.Source, error) {
		return []*ast.Source{{Name: name, Input: sdl}}, nil
	}}
}

// Create parses and validates the schema and builds the graph.
func (f *Factory) Create(ctx context.Context) (*objgraph.ObjectGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sources, err := f.load()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "load GraphQL schema")
	}
	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse GraphQL schema")
	}
	return Convert(schema, f.opts), nil
}

// Convert maps a loaded schema onto a graph. Types are emitted in name
// order.
func Convert(schema *ast.Schema, opts Options) *objgraph.ObjectGraph {
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	var defs []*ast.Definition
	for _, def := range schema.Types {
		if !isEntity(def) || (!opts.IncludeRoots && isRoot(schema, def)) {
			continue
		}
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b *ast.Definition) int { return strings.Compare(a.Name, b.Name) })

	objects := make([]objgraph.Object, 0, len(defs))
	byName := make(map[string]objgraph.Object, len(defs))
	for _, def := range defs {
		o := objgraph.Object{ID: def.Name, Package: pkg, Name: def.Name, Stereotype: stereotype(def)}
		for _, fd := range def.Fields {
			if isIntrospection(fd.Name) {
				continue
			}
			o.Fields = append(o.Fields, objgraph.Field{
				Name:        fd.Name,
				ElementType: fd.Type.Name(),
				Plural:      isList(fd.Type),
			})
		}
		objects = append(objects, o)
		byName[def.Name] = o
	}

	var rels []objgraph.Relation
	for _, def := range defs {
		from := byName[def.Name]
		for _, fd := range def.Fields {
			to, ok := byName[fd.Type.Name()]
			if !ok || isIntrospection(fd.Name) {
				continue
			}
			typ := objgraph.OneToOne
			if isList(fd.Type) {
				typ = objgraph.OneToMany
			}
			rels = append(rels, objgraph.Relation{Type: typ, From: from, To: to, Label: fd.Name})
		}
		for _, iface := range def.Interfaces {
			if to, ok := byName[iface]; ok {
				rels = append(rels, objgraph.Relation{Type: objgraph.Inheritance, From: from, To: to})
			}
		}
	}
	return objgraph.New(objects, rels)
}

func isEntity(def *ast.Definition) bool {
	if def.BuiltIn {
		return false
	}
	return def.Kind == ast.Object || def.Kind == ast.Interface
}

func isRoot(schema *ast.Schema, def *ast.Definition) bool {
	return def == schema.Query || def == schema.Mutation || def == schema.Subscription
}

func isIntrospection(name string) bool {
	return strings.HasPrefix(name, "__")
}

func isList(t *ast.Type) bool {
	return t != nil && t.Elem != nil
}

func stereotype(def *ast.Definition) string {
	if d := def.Directives.ForName("stereotype"); d != nil {
		if arg := d.Arguments.ForName("name"); arg != nil && arg.Value != nil {
			return arg.Value.Raw
		}
	}
	if def.Kind == ast.Interface {
		return "interface"
	}
	return ""
}
