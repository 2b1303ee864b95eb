package model

import (
	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Document is the serialized form of an object graph.
type Document struct {
	Objects   []ObjectDoc   `json:"objects" toml:"objects" yaml:"objects" msgpack:"objects"`
	Relations []RelationDoc `json:"relations,omitempty" toml:"relations,omitempty" yaml:"relations,omitempty" msgpack:"relations,omitempty"`
}

// ObjectDoc is one object of a [Document].
type ObjectDoc struct {
	ID         string     `json:"id" toml:"id" yaml:"id" msgpack:"id"`
	Package    string     `json:"package,omitempty" toml:"package,omitempty" yaml:"package,omitempty" msgpack:"package,omitempty"`
	Name       string     `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Stereotype string     `json:"stereotype,omitempty" toml:"stereotype,omitempty" yaml:"stereotype,omitempty" msgpack:"stereotype,omitempty"`
	Fields     []FieldDoc `json:"fields,omitempty" toml:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
}

// FieldDoc is one field of an [ObjectDoc].
type FieldDoc struct {
	Name   string `json:"name" toml:"name" yaml:"name" msgpack:"name"`
	Type   string `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Plural bool   `json:"plural,omitempty" toml:"plural,omitempty" yaml:"plural,omitempty" msgpack:"plural,omitempty"`
}

// RelationDoc is one relation of a [Document]. Endpoints are object IDs.
type RelationDoc struct {
	Type      string `json:"type" toml:"type" yaml:"type" msgpack:"type"`
	From      string `json:"from" toml:"from" yaml:"from" msgpack:"from"`
	To        string `json:"to" toml:"to" yaml:"to" msgpack:"to"`
	Label     string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	NearLabel string `json:"near_label,omitempty" toml:"near_label,omitempty" yaml:"near_label,omitempty" msgpack:"near_label,omitempty"`
	FarLabel  string `json:"far_label,omitempty" toml:"far_label,omitempty" yaml:"far_label,omitempty" msgpack:"far_label,omitempty"`
}

// FromGraph converts g into a document.
func FromGraph(g *objgraph.ObjectGraph) Document {
	objects := g.Objects()
	rels := g.Relations()
	doc := Document{
		Objects:   make([]ObjectDoc, len(objects)),
		Relations: make([]RelationDoc, len(rels)),
	}
	for i, o := range objects {
		od := ObjectDoc{ID: o.ID, Package: o.Package, Name: o.Name, Stereotype: o.Stereotype}
		for _, f := range o.Fields {
			od.Fields = append(od.Fields, FieldDoc{Name: f.Name, Type: f.ElementType, Plural: f.Plural})
		}
		doc.Objects[i] = od
	}
	for i, r := range rels {
		doc.Relations[i] = RelationDoc{
			Type:      r.Type.String(),
			From:      r.FromID(),
			To:        r.ToID(),
			Label:     r.Label,
			NearLabel: r.NearLabel,
			FarLabel:  r.FarLabel,
		}
	}
	return doc
}

// ToGraph validates the document and builds a graph from it. Relation
// endpoints are resolved to the listed objects.
func (d Document) ToGraph() (*objgraph.ObjectGraph, error) {
	objects := make([]objgraph.Object, 0, len(d.Objects))
	for _, od := range d.Objects {
		if err := errors.ValidateObjectID(od.ID); err != nil {
			return nil, err
		}
		if err := errors.ValidatePackageName(od.Package); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "object %s", od.ID)
		}
		o := objgraph.Object{ID: od.ID, Package: od.Package, Name: od.Name, Stereotype: od.Stereotype}
		for _, f := range od.Fields {
			o.Fields = append(o.Fields, objgraph.Field{Name: f.Name, ElementType: f.Type, Plural: f.Plural})
		}
		objects = append(objects, o)
	}

	g := objgraph.New(objects, nil)
	idx, err := g.Index()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "invalid objects")
	}

	rels := make([]objgraph.Relation, 0, len(d.Relations))
	for i, rd := range d.Relations {
		typ, err := objgraph.ParseRelationType(rd.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "relation %d", i)
		}
		from, err := idx.Resolve(rd.From)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "relation %d (%s->%s)", i, rd.From, rd.To)
		}
		to, err := idx.Resolve(rd.To)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "relation %d (%s->%s)", i, rd.From, rd.To)
		}
		rels = append(rels, objgraph.Relation{
			Type:      typ,
			From:      from,
			To:        to,
			Label:     rd.Label,
			NearLabel: rd.NearLabel,
			FarLabel:  rd.FarLabel,
		})
	}
	return objgraph.New(objects, rels), nil
}
