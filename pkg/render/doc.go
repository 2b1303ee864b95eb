// Package render groups the diagram renderers for object graphs.
//
// # Overview
//
// Each subpackage implements [objgraph.Renderer] for one output format:
//
//   - [plantuml]: PlantUML class diagram source
//   - [dot]: Graphviz DOT source, and SVG via in-process Graphviz
//
// Renderers read a snapshot and never modify it, so one graph can be rendered
// into several formats concurrently.
//
//	puml, err := g.Render(plantuml.New(plantuml.Options{}))
//	svg, err := g.Render(dot.NewSVG(ctx, dot.Options{}))
//
// [objgraph.Renderer]: github.com/matzehuels/objectgraph/pkg/objgraph.Renderer
// [plantuml]: github.com/matzehuels/objectgraph/pkg/render/plantuml
// [dot]: github.com/matzehuels/objectgraph/pkg/render/dot
package render
