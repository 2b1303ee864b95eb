// Package plantuml renders object graphs as PlantUML class diagrams.
//
// # Usage
//
//	r := plantuml.New(plantuml.Options{Title: "Domain"})
//	text, err := g.Render(r)
//
// The output is plain PlantUML source, ready for the plantuml CLI or a
// PlantUML server.
//
// # Layout
//
// Objects are emitted grouped by package, one package block per group, in
// the order [objgraph.ObjectGraph.ObjectsGroupedByPackage] returns them.
// Objects without a package are emitted at the top level. Each class is
// declared with a quoted display name and an alias derived from its ID, so
// IDs containing dots or spaces still produce valid source.
//
// # Relations
//
//   - ONE_TO_ONE, ONE_TO_MANY, MERGED_ASSOCIATIONS: A --> B : label
//   - INHERITANCE: A --|> B
//   - BIDIR_ASSOCIATION: A "near" -- "far" B
//
// Labels use [objgraph.Relation.LabelFormatted], so to-many ends carry
// square brackets.
package plantuml
