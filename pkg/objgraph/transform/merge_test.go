package transform

import (
	"errors"
	"testing"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

var (
	objA = objgraph.Object{ID: "A", Package: "p", Name: "A"}
	objB = objgraph.Object{ID: "B", Package: "p", Name: "B"}
	objC = objgraph.Object{ID: "C", Package: "p", Name: "C"}
)

func rel(typ objgraph.RelationType, from, to objgraph.Object, label string) objgraph.Relation {
	return objgraph.Relation{Type: typ, From: from, To: to, Label: label}
}

func graphOf(rels ...objgraph.Relation) *objgraph.ObjectGraph {
	return objgraph.New([]objgraph.Object{objA, objB, objC}, rels)
}

func countAssociations(g *objgraph.ObjectGraph) int {
	n := 0
	for _, r := range g.Relations() {
		if r.IsAssociation() {
			n++
		}
	}
	return n
}

func TestMerge_SingleOneToMany(t *testing.T) {
	g := graphOf(rel(objgraph.OneToMany, objA, objB, "items"))

	out, report, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	rels := out.Relations()
	if len(rels) != 1 {
		t.Fatalf("relation count = %d, want 1", len(rels))
	}
	if rels[0].Type != objgraph.OneToMany {
		t.Errorf("type = %s, want ONE_TO_MANY", rels[0].Type)
	}
	if got := rels[0].LabelFormatted(); got != "[items]" {
		t.Errorf("LabelFormatted() = %q, want %q", got, "[items]")
	}
	if report.SameDirectionMerged != 0 || report.BidirectionalMerged != 0 {
		t.Errorf("report = %+v, want no merges", report)
	}
}

func TestMergeSameDirection_TwoOneToOne(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.OneToOne, objA, objB, "y"),
	)

	out, err := MergeSameDirection(g)
	if err != nil {
		t.Fatalf("MergeSameDirection() error: %v", err)
	}

	rels := out.Relations()
	if len(rels) != 1 {
		t.Fatalf("relation count = %d, want 1", len(rels))
	}
	r := rels[0]
	if r.Type != objgraph.MergedAssociations {
		t.Errorf("type = %s, want MERGED_ASSOCIATIONS", r.Type)
	}
	if r.FromID() != "A" || r.ToID() != "B" {
		t.Errorf("endpoints = %s->%s, want A->B", r.FromID(), r.ToID())
	}
	if r.Label != "x,y" {
		t.Errorf("label = %q, want %q", r.Label, "x,y")
	}
	if r.NearLabel != "" || r.FarLabel != "" {
		t.Errorf("near/far = %q/%q, want empty", r.NearLabel, r.FarLabel)
	}
}

func TestMergeSameDirection_UsesFormattedLabels(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "owner"),
		rel(objgraph.OneToMany, objA, objB, "items"),
	)

	out, err := MergeSameDirection(g)
	if err != nil {
		t.Fatalf("MergeSameDirection() error: %v", err)
	}
	if got := out.Relations()[0].Label; got != "owner,[items]" {
		t.Errorf("label = %q, want %q", got, "owner,[items]")
	}
}

func TestMerge_OppositeOneToOne(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "owner"),
		rel(objgraph.OneToOne, objB, objA, "pet"),
	)

	out, report, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	rels := out.Relations()
	if len(rels) != 1 {
		t.Fatalf("relation count = %d, want 1", len(rels))
	}
	r := rels[0]
	if r.Type != objgraph.BidirAssociation {
		t.Errorf("type = %s, want BIDIR_ASSOCIATION", r.Type)
	}
	if r.Label != "" {
		t.Errorf("label = %q, want empty", r.Label)
	}
	if r.FarLabel != "owner" {
		t.Errorf("far label = %q, want %q", r.FarLabel, "owner")
	}
	if r.NearLabel != "pet" {
		t.Errorf("near label = %q, want %q", r.NearLabel, "pet")
	}
	if r.FromID() != "A" || r.ToID() != "B" {
		t.Errorf("endpoints = %s->%s, want A->B", r.FromID(), r.ToID())
	}
	if report.BidirectionalMerged != 1 {
		t.Errorf("BidirectionalMerged = %d, want 1", report.BidirectionalMerged)
	}
}

func TestMerge_DirectionFollowsListOrder(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objB, objA, "pet"),
		rel(objgraph.OneToOne, objA, objB, "owner"),
	)

	out, _, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	r := out.Relations()[0]
	if r.FromID() != "B" || r.ToID() != "A" {
		t.Errorf("endpoints = %s->%s, want B->A", r.FromID(), r.ToID())
	}
	if r.FarLabel != "pet" || r.NearLabel != "owner" {
		t.Errorf("far/near = %q/%q, want pet/owner", r.FarLabel, r.NearLabel)
	}
}

func TestMerge_MixedDirections(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.OneToMany, objB, objA, "zs"),
		rel(objgraph.OneToOne, objA, objB, "y"),
	)

	out, report, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	rels := out.Relations()
	if len(rels) != 1 {
		t.Fatalf("relation count = %d, want 1: %v", len(rels), rels)
	}
	r := rels[0]
	if r.Type != objgraph.BidirAssociation {
		t.Fatalf("type = %s, want BIDIR_ASSOCIATION", r.Type)
	}
	if r.FarLabel != "x,y" || r.NearLabel != "[zs]" {
		t.Errorf("far/near = %q/%q, want %q/%q", r.FarLabel, r.NearLabel, "x,y", "[zs]")
	}
	if report.SameDirectionMerged != 1 || report.BidirectionalMerged != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestMerge_SelfReferenceNeverPairs(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objA, "parent"),
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.OneToOne, objB, objA, "y"),
	)

	out, _, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	var self, bidir int
	for _, r := range out.Relations() {
		if r.IsSelfReference() {
			self++
			if r.Type == objgraph.BidirAssociation {
				t.Error("self reference converted to BIDIR_ASSOCIATION")
			}
		}
		if r.Type == objgraph.BidirAssociation {
			bidir++
		}
	}
	if self != 1 || bidir != 1 {
		t.Errorf("self = %d, bidir = %d; want 1, 1", self, bidir)
	}
}

func TestMerge_TwoSelfReferencesMergeSameDirection(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objA, "parent"),
		rel(objgraph.OneToMany, objA, objA, "children"),
	)

	out, _, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	rels := out.Relations()
	if len(rels) != 1 || rels[0].Type != objgraph.MergedAssociations {
		t.Fatalf("relations = %v, want one MERGED_ASSOCIATIONS", rels)
	}
	if rels[0].Label != "parent,[children]" {
		t.Errorf("label = %q", rels[0].Label)
	}
}

func TestMerge_InheritancePassesThrough(t *testing.T) {
	inh := rel(objgraph.Inheritance, objB, objA, "")
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		inh,
		rel(objgraph.OneToOne, objA, objB, "y"),
		rel(objgraph.Inheritance, objA, objB, ""),
	)

	out, _, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	rels := out.Relations()
	if len(rels) != 3 {
		t.Fatalf("relation count = %d, want 3: %v", len(rels), rels)
	}
	if rels[0].String() != inh.String() {
		t.Errorf("first relation = %v, want inheritance kept in place", rels[0])
	}
	if rels[1].Type != objgraph.Inheritance {
		t.Errorf("second relation = %v, want inheritance", rels[1])
	}
	if rels[2].Type != objgraph.MergedAssociations {
		t.Errorf("third relation = %v, want MERGED_ASSOCIATIONS", rels[2])
	}
}

func TestMerge_GroupingSymmetry(t *testing.T) {
	forward := rel(objgraph.OneToOne, objA, objB, "f")
	backward := rel(objgraph.OneToOne, objB, objA, "b")

	for _, order := range [][]objgraph.Relation{{forward, backward}, {backward, forward}} {
		out, err := MergeBidirectional(graphOf(order...))
		if err != nil {
			t.Fatalf("MergeBidirectional() error: %v", err)
		}
		rels := out.Relations()
		if len(rels) != 1 || rels[0].Type != objgraph.BidirAssociation {
			t.Errorf("order %v: relations = %v, want one BIDIR_ASSOCIATION", order, rels)
		}
	}
}

func TestMergeSameDirection_Idempotent(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.Inheritance, objC, objA, ""),
		rel(objgraph.OneToMany, objB, objC, "cs"),
		rel(objgraph.OneToOne, objA, objB, "y"),
		rel(objgraph.OneToOne, objC, objC, "self"),
	)

	once, err := MergeSameDirection(g)
	if err != nil {
		t.Fatalf("MergeSameDirection() error: %v", err)
	}
	twice, err := MergeSameDirection(once)
	if err != nil {
		t.Fatalf("MergeSameDirection() error: %v", err)
	}

	a, b := once.Relations(), twice.Relations()
	if len(a) != len(b) {
		t.Fatalf("len once = %d, twice = %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].FromID() != b[i].FromID() ||
			a[i].ToID() != b[i].ToID() || a[i].Label != b[i].Label {
			t.Errorf("relation %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMerge_CountInvariant(t *testing.T) {
	tests := []struct {
		name      string
		rels      []objgraph.Relation
		wantEqual bool
	}{
		{"distinct", []objgraph.Relation{
			rel(objgraph.OneToOne, objA, objB, "x"),
			rel(objgraph.OneToOne, objB, objC, "y"),
		}, true},
		{"duplicate", []objgraph.Relation{
			rel(objgraph.OneToOne, objA, objB, "x"),
			rel(objgraph.OneToOne, objA, objB, "y"),
		}, false},
		{"opposite", []objgraph.Relation{
			rel(objgraph.OneToOne, objA, objB, "x"),
			rel(objgraph.OneToOne, objB, objA, "y"),
		}, false},
		{"inheritance only", []objgraph.Relation{
			rel(objgraph.Inheritance, objA, objB, ""),
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(tt.rels...)
			out, _, err := Merge(g)
			if err != nil {
				t.Fatalf("Merge() error: %v", err)
			}
			before, after := countAssociations(g), countAssociations(out)
			if after > before {
				t.Errorf("associations grew: %d -> %d", before, after)
			}
			if (after == before) != tt.wantEqual {
				t.Errorf("associations %d -> %d, want equal = %v", before, after, tt.wantEqual)
			}
		})
	}
}

func TestMergeBidirectional_LargeGroupUntouched(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.OneToOne, objA, objB, "y"),
		rel(objgraph.OneToOne, objB, objA, "z"),
	)
	idx, err := g.Index()
	if err != nil {
		t.Fatal(err)
	}

	out, merged, unpaired, err := mergeBidirectional(idx, g.Relations())
	if err != nil {
		t.Fatalf("mergeBidirectional() error: %v", err)
	}
	if merged != 0 {
		t.Errorf("merged = %d, want 0", merged)
	}
	if len(out) != 3 {
		t.Errorf("relation count = %d, want 3", len(out))
	}
	if len(unpaired) != 1 || unpaired[0].A != "A" || unpaired[0].B != "B" || unpaired[0].Relations != 3 {
		t.Errorf("unpaired = %+v", unpaired)
	}
}

func TestMerge_UnknownEndpoint(t *testing.T) {
	ghost := objgraph.Object{ID: "ghost"}
	g := graphOf(
		rel(objgraph.OneToOne, objA, ghost, "x"),
		rel(objgraph.OneToOne, objA, ghost, "y"),
	)

	if _, _, err := Merge(g); !errors.Is(err, objgraph.ErrUnknownEndpoint) {
		t.Errorf("Merge() error = %v, want ErrUnknownEndpoint", err)
	}
}

func TestMerge_DuplicateObjects(t *testing.T) {
	g := objgraph.New([]objgraph.Object{objA, objA}, nil)
	if _, _, err := Merge(g); !errors.Is(err, objgraph.ErrDuplicateObjectID) {
		t.Errorf("Merge() error = %v, want ErrDuplicateObjectID", err)
	}
}

func TestMerge_ResolvesEndpointsFromCurrentObjects(t *testing.T) {
	renamedA := objA.WithName("Alpha")
	g := objgraph.New(
		[]objgraph.Object{renamedA, objB},
		[]objgraph.Relation{
			rel(objgraph.OneToOne, objA, objB, "x"),
			rel(objgraph.OneToOne, objA, objB, "y"),
		},
	)

	out, _, err := Merge(g)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if got := out.Relations()[0].From.Name; got != "Alpha" {
		t.Errorf("From.Name = %q, want %q", got, "Alpha")
	}
}

func TestMerge_LeavesInputUnchanged(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "x"),
		rel(objgraph.OneToOne, objB, objA, "y"),
	)

	if _, _, err := Merge(g); err != nil {
		t.Fatal(err)
	}
	if g.RelationCount() != 2 {
		t.Errorf("input relation count = %d, want 2", g.RelationCount())
	}
}

func TestRelationMerger_Transform(t *testing.T) {
	g := graphOf(
		rel(objgraph.OneToOne, objA, objB, "owner"),
		rel(objgraph.OneToOne, objB, objA, "pet"),
	)

	m := NewRelationMerger(nil)
	out, err := g.Transform(m)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if out.RelationCount() != 1 {
		t.Errorf("relation count = %d, want 1", out.RelationCount())
	}
	if out.ObjectCount() != 3 {
		t.Errorf("object count = %d, want 3", out.ObjectCount())
	}
	if got := m.Report().BidirectionalMerged; got != 1 {
		t.Errorf("Report().BidirectionalMerged = %d, want 1", got)
	}
}
