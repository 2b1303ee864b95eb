// Package graphql builds object graphs from GraphQL schema definitions.
//
// Object and interface types become objects; scalars, enums, unions and
// input types are ignored. A field whose type is another object or
// interface becomes a relation labelled with the field name: ONE_TO_MANY
// for list types, ONE_TO_ONE otherwise. An "implements" clause becomes an
// INHERITANCE relation to each interface.
//
// Interfaces get the stereotype "interface". A type may set its own with a
// directive, provided the schema declares it:
//
//	directive @stereotype(name: String!) on OBJECT | INTERFACE
//
//	type Order @stereotype(name: "aggregate") { ... }
//
// The root operation types (Query, Mutation, Subscription) are skipped
// unless [Options.IncludeRoots] is set.
package graphql
