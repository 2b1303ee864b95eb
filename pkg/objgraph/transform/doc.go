// Package transform provides graph transformations that prepare an object
// graph for rendering.
//
// # Relation Merging
//
// Factories emit one association per member, so a raw graph often carries
// several edges between the same two types. [Merge] consolidates them in two
// passes:
//
//  1. [MergeSameDirection] collapses associations sharing source and target
//     into one MERGED_ASSOCIATIONS relation labelled with the comma-joined
//     member labels:
//
//     Before: Order -orders-> Customer, Order -[items]-> Customer
//     After:  Order -"orders,[items]"-> Customer
//
//  2. [MergeBidirectional] collapses a pair of opposite associations into
//     one BIDIR_ASSOCIATION relation. The first relation of the pair (in list
//     order) provides the direction and the far label; the second provides
//     the near label:
//
//     Before: Pet -owner-> Person, Person -pet-> Pet
//     After:  Pet "pet" -- "owner" Person
//
// Inheritance relations are never touched, self references never pair up,
// and groups that do not fit a rule are left as they are.
//
// # Object Modifiers
//
// [Modify] maps every object through a function, for relabeling or moving
// types between packages. [Humanize] is a ready-made modifier.
//
// # Filtering
//
// [FilterPackages] removes types by package together with their relations.
//
// # Usage
//
//	t := transform.Chain(
//	    transform.FilterPackages(nil, []string{"internal"}),
//	    transform.Humanize(),
//	    transform.NewRelationMerger(logger),
//	)
//	g, err := g.Transform(t)
//
// All transformers return a new snapshot and leave their input unchanged.
package transform
