// Package dot renders object graphs as Graphviz diagrams.
//
// # Overview
//
// [ToDOT] produces DOT source with one cluster per package and a
// record-shaped node per object, listing its fields. [RenderSVG] lays the
// source out in-process and returns SVG.
//
//	src, err := dot.ToDOT(g, dot.Options{Title: "Domain"})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [Renderer] and [SVGRenderer] wrap both steps behind [objgraph.Renderer].
//
// # Edge Styles
//
//   - Associations: solid edge with an open arrow and the formatted label
//   - MERGED_ASSOCIATIONS: as associations, drawn bold
//   - BIDIR_ASSOCIATION: undirected edge, near label at the tail and far
//     label at the head
//   - INHERITANCE: edge with a hollow triangle pointing at the supertype
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package dot
