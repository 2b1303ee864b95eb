package transform_test

import (
	"fmt"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/objgraph/transform"
)

func ExampleMerge() {
	pet := objgraph.Object{ID: "Pet", Package: "petclinic"}
	person := objgraph.Object{ID: "Person", Package: "petclinic"}
	g := objgraph.New(
		[]objgraph.Object{pet, person},
		[]objgraph.Relation{
			{Type: objgraph.OneToOne, From: pet, To: person, Label: "owner"},
			{Type: objgraph.OneToMany, From: person, To: pet, Label: "pets"},
		},
	)

	merged, report, err := transform.Merge(g)
	if err != nil {
		panic(err)
	}
	r := merged.Relations()[0]
	fmt.Println(r.Type, r.FromID(), r.ToID())
	fmt.Printf("near=%s far=%s\n", r.NearLabel, r.FarLabel)
	fmt.Println("pairs merged:", report.BidirectionalMerged)
	// Output:
	// BIDIR_ASSOCIATION Pet Person
	// near=[pets] far=owner
	// pairs merged: 1
}

func ExampleMergeSameDirection() {
	order := objgraph.Object{ID: "Order"}
	customer := objgraph.Object{ID: "Customer"}
	g := objgraph.New(
		[]objgraph.Object{order, customer},
		[]objgraph.Relation{
			{Type: objgraph.OneToOne, From: order, To: customer, Label: "buyer"},
			{Type: objgraph.OneToOne, From: order, To: customer, Label: "payer"},
		},
	)

	merged, err := transform.MergeSameDirection(g)
	if err != nil {
		panic(err)
	}
	fmt.Println(merged.Relations()[0])
	// Output:
	// Order -MERGED_ASSOCIATIONS-> Customer "buyer,payer"
}
