// Package objgraph provides the object graph that backs structural class
// diagrams: a set of [Object] nodes (types) connected by [Relation] edges
// (associations and inheritance).
//
// # Overview
//
// Diagrams are produced by a strictly one-way pipeline:
//
//	Factory → raw ObjectGraph → Transformer(s) → ObjectGraph → Renderer → text
//
// A [Factory] introspects some model source (a model file, a database schema,
// a GraphQL schema) and builds the raw graph. [Transformer] implementations
// normalize it, for example by consolidating redundant associations (see
// package transform). A [Renderer] walks the final graph and writes diagram
// markup.
//
// # Snapshots
//
// An [ObjectGraph] is an immutable snapshot. [New] copies its inputs and the
// accessors return copies, so a transformer never aliases the graph it was
// given; it always builds a fresh snapshot. This makes it safe to render one
// snapshot into several formats concurrently.
//
// # Identity
//
// Objects are keyed by [Object.ID]. IDs must be non-empty and unique within a
// graph, and every relation endpoint must resolve to an object of the same
// graph. [Create] does not check this; call [ObjectGraph.Validate] when the
// factory is not trusted.
//
// # Usage
//
//	g, err := objgraph.Create(ctx, factory)
//	if err != nil {
//	    return err
//	}
//	g, err = g.Transform(transform.NewRelationMerger(nil))
//	if err != nil {
//	    return err
//	}
//	text, err := g.Render(plantuml.New(plantuml.Options{}))
//
// # Concurrency
//
// Snapshots are safe for concurrent reads. Independent graphs share no state.
package objgraph
