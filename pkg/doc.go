// Package pkg provides the core libraries for objectgraph class diagrams.
//
// # Overview
//
// objectgraph builds an object graph (structural types plus the relations
// between them) from a schema, consolidates redundant associations, and
// renders the result as a class diagram. The pkg directory is organized into
// these areas:
//
//  1. [objgraph] - Domain model (objects, relations, immutable graphs)
//  2. [objgraph/transform] - Relation merging, package filters, humanizing
//  3. [source] - Factories for SQL databases, GraphQL schemas, and model files
//  4. [render] - PlantUML, DOT, and SVG renderers
//  5. [pipeline] - Orchestration (create → transform → render) with caching
//  6. [cache] - File, Redis, MongoDB, and null cache backends
//  7. [model] - Serialized graph documents (JSON, TOML, YAML, msgpack)
//
// # Architecture
//
// The typical data flow through objectgraph:
//
//	Database / GraphQL schema / model document
//	         ↓
//	    [source] package (build the graph)
//	         ↓
//	    [objgraph/transform] package (filter, humanize, merge relations)
//	         ↓
//	    [render] package (PlantUML, DOT, SVG) or [model] (JSON)
//
// # Quick Start
//
// Introspect a database and render a PlantUML diagram:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/objectgraph/pkg/objgraph/transform"
//	    "github.com/matzehuels/objectgraph/pkg/render/plantuml"
//	    "github.com/matzehuels/objectgraph/pkg/source"
//	)
//
//	// 1. Open a source
//	src, _ := source.Open(ctx, "sqlite://app.db", source.Options{Package: "app"})
//	defer src.Close()
//
//	// 2. Build the graph
//	g, _ := objgraph.Create(ctx, src)
//
//	// 3. Merge redundant associations
//	g, report, _ := transform.Merge(g)
//
//	// 4. Render
//	puml, _ := g.Render(plantuml.New(plantuml.Options{Title: "App"}))
//
// The [pipeline] package wraps these steps with validation, caching, and
// observability hooks and is what the CLI and HTTP server use.
//
// # Errors
//
// [errors] defines coded errors shared by every package. Codes map to exit
// messages in the CLI and to status codes in the HTTP server.
//
// [objgraph]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/objgraph
// [objgraph/transform]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/objgraph/transform
// [source]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/cache
// [model]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/model
// [errors]: https://pkg.go.dev/github.com/matzehuels/objectgraph/pkg/errors
package pkg
