package objgraph

import "slices"

// Field is a member of an [Object] as shown in a diagram.
type Field struct {
	Name        string // Member name
	ElementType string // Short name of the element type (e.g. "Order")
	Plural      bool   // Whether the field models a to-many relationship
}

// Object represents one structural type in the graph.
//
// Objects are values. The With* methods return modified copies and never
// touch the ID, which is the object's identity for the lifetime of a graph.
// Fields may be shared between copies; treat it as read-only and use
// WithFields to replace it.
type Object struct {
	ID         string  // Unique key, typically the fully-qualified type name
	Package    string  // Package (namespace) the type belongs to
	Name       string  // Display name
	Stereotype string  // Optional, e.g. "entity" or "viewmodel"
	Fields     []Field // Ordered members
}

// WithName returns a copy of o with the display name replaced.
func (o Object) WithName(name string) Object {
	o.Fields = slices.Clone(o.Fields)
	o.Name = name
	return o
}

// WithPackage returns a copy of o moved to another package.
func (o Object) WithPackage(pkg string) Object {
	o.Fields = slices.Clone(o.Fields)
	o.Package = pkg
	return o
}

// WithStereotype returns a copy of o with the stereotype replaced.
func (o Object) WithStereotype(stereotype string) Object {
	o.Fields = slices.Clone(o.Fields)
	o.Stereotype = stereotype
	return o
}

// WithFields returns a copy of o carrying a copy of fields.
func (o Object) WithFields(fields []Field) Object {
	o.Fields = slices.Clone(fields)
	return o
}

// DisplayName returns the name if set, otherwise the ID.
func (o Object) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

// HasStereotype reports whether a stereotype is set.
func (o Object) HasStereotype() bool { return o.Stereotype != "" }
