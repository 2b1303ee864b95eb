package model_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/objectgraph/pkg/model"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

func ExampleDecode() {
	src := `{
	  "objects": [{"id": "Order"}, {"id": "Line"}],
	  "relations": [{"type": "one-to-many", "from": "Order", "to": "Line", "label": "lines"}]
	}`
	g, err := model.Decode(strings.NewReader(src), model.FormatJSON)
	if err != nil {
		panic(err)
	}
	fmt.Println(g.Relations()[0])
	// Output:
	// Order -ONE_TO_MANY-> Line "[lines]"
}

func ExampleEncode() {
	a := objgraph.Object{ID: "A", Package: "p"}
	b := objgraph.Object{ID: "B", Package: "p"}
	g := objgraph.New([]objgraph.Object{a, b}, []objgraph.Relation{
		{Type: objgraph.Inheritance, From: b, To: a},
	})
	if err := model.Encode(os.Stdout, g, model.FormatYAML); err != nil {
		panic(err)
	}
	// Output:
	// objects:
	//   - id: A
	//     package: p
	//   - id: B
	//     package: p
	// relations:
	//   - type: INHERITANCE
	//     from: B
	//     to: A
}
