package objgraph

import (
	"fmt"
	"strings"
)

// RelationType classifies a [Relation].
type RelationType int

const (
	// OneToOne is a to-one association created by a factory.
	OneToOne RelationType = iota
	// OneToMany is a to-many association created by a factory.
	OneToMany
	// MergedAssociations replaces several same-direction associations
	// between one ordered pair of objects.
	MergedAssociations
	// BidirAssociation replaces a pair of opposite associations between
	// two distinct objects.
	BidirAssociation
	// Inheritance points from a subtype to its supertype.
	Inheritance
)

var relationTypeNames = [...]string{
	OneToOne:           "ONE_TO_ONE",
	OneToMany:          "ONE_TO_MANY",
	MergedAssociations: "MERGED_ASSOCIATIONS",
	BidirAssociation:   "BIDIR_ASSOCIATION",
	Inheritance:        "INHERITANCE",
}

// String returns the canonical upper-case name, e.g. "ONE_TO_MANY".
func (t RelationType) String() string {
	if t < 0 || int(t) >= len(relationTypeNames) {
		return fmt.Sprintf("RelationType(%d)", int(t))
	}
	return relationTypeNames[t]
}

// IsAssociation reports whether t is any relation type but [Inheritance].
func (t RelationType) IsAssociation() bool { return t != Inheritance }

// ParseRelationType parses a canonical name. Matching is case-insensitive
// and accepts '-' in place of '_'.
func ParseRelationType(s string) (RelationType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, name := range relationTypeNames {
		if name == norm {
			return RelationType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelationType, s)
}

// Relation is a directed edge between two objects of the same graph.
//
// NearLabel and FarLabel are only used by [BidirAssociation]: the near label
// sits at the From end and the far label at the To end.
type Relation struct {
	Type      RelationType
	From      Object
	To        Object
	Label     string // Primary (middle) description
	NearLabel string // Description placed next to From
	FarLabel  string // Description placed next to To
}

// FromID returns the ID of the source object.
func (r Relation) FromID() string { return r.From.ID }

// ToID returns the ID of the target object.
func (r Relation) ToID() string { return r.To.ID }

// IsAssociation reports whether the relation is not an inheritance edge.
func (r Relation) IsAssociation() bool { return r.Type.IsAssociation() }

// IsSelfReference reports whether both endpoints are the same object.
func (r Relation) IsSelfReference() bool { return r.From.ID == r.To.ID }

// LabelFormatted returns the label in multiplicity notation: wrapped in
// square brackets for [OneToMany], unchanged for every other type.
func (r Relation) LabelFormatted() string {
	if r.Type == OneToMany {
		return "[" + r.Label + "]"
	}
	return r.Label
}

// String returns a compact debug form, e.g. `A -ONE_TO_MANY-> B "[items]"`.
func (r Relation) String() string {
	return fmt.Sprintf("%s -%s-> %s %q", r.FromID(), r.Type, r.ToID(), r.LabelFormatted())
}
