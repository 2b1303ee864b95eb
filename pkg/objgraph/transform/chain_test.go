package transform

import (
	"errors"
	"testing"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

func TestChain_Empty(t *testing.T) {
	g := graphOf(rel(objgraph.OneToOne, objA, objB, "x"))
	out, err := g.Transform(Chain())
	if err != nil {
		t.Fatal(err)
	}
	if out != g {
		t.Error("empty chain did not return its input")
	}
}

func TestChain_AppliesInOrder(t *testing.T) {
	var calls []string
	step := func(name string) objgraph.Transformer {
		return objgraph.TransformerFunc(func(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
			calls = append(calls, name)
			return g, nil
		})
	}

	if _, err := graphOf().Transform(Chain(step("a"), nil, step("b"))); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestChain_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	failing := objgraph.TransformerFunc(func(*objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
		return nil, boom
	})
	after := objgraph.TransformerFunc(func(g *objgraph.ObjectGraph) (*objgraph.ObjectGraph, error) {
		called = true
		return g, nil
	})

	if _, err := graphOf().Transform(Chain(failing, after)); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if called {
		t.Error("transformer after failure was called")
	}
}

func TestChain_FilterThenMerge(t *testing.T) {
	other := objgraph.Object{ID: "X", Package: "other"}
	g := objgraph.New(
		[]objgraph.Object{objA, objB, other},
		[]objgraph.Relation{
			rel(objgraph.OneToOne, objA, objB, "owner"),
			rel(objgraph.OneToOne, objB, objA, "pet"),
			rel(objgraph.OneToOne, objA, other, "x"),
		},
	)

	out, err := g.Transform(Chain(FilterPackages([]string{"p"}, nil), NewRelationMerger(nil)))
	if err != nil {
		t.Fatal(err)
	}
	if out.ObjectCount() != 2 || out.RelationCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", out.ObjectCount(), out.RelationCount())
	}
}
