package plantuml

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Options configures PlantUML output.
type Options struct {
	// Title is emitted as a diagram title when non-empty.
	Title string
	// HideFields omits class bodies.
	HideFields bool
}

// Renderer writes PlantUML class diagrams. It implements [objgraph.Renderer].
type Renderer struct {
	opts Options
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render writes g as PlantUML source to w.
func (r *Renderer) Render(w io.Writer, g *objgraph.ObjectGraph) error {
	src, err := ToPlantUML(g, r.opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, src)
	return err
}

// ToPlantUML converts g to PlantUML source. Relations whose endpoints are not
// objects of g are an error wrapping [objgraph.ErrUnknownEndpoint].
func ToPlantUML(g *objgraph.ObjectGraph, opts Options) (string, error) {
	aliases := newAliases(g.Objects())

	var b strings.Builder
	b.WriteString("@startuml\n")
	if opts.Title != "" {
		fmt.Fprintf(&b, "title %s\n", opts.Title)
	}
	b.WriteString("hide empty members\n\n")

	for _, grp := range g.ObjectsGroupedByPackage() {
		indent := ""
		if grp.Name != "" {
			fmt.Fprintf(&b, "package %s {\n", quote(grp.Name))
			indent = "  "
		}
		for _, o := range grp.Objects {
			writeClass(&b, indent, o, aliases[o.ID], opts.HideFields)
		}
		if grp.Name != "" {
			b.WriteString("}\n")
		}
		b.WriteString("\n")
	}

	for _, rel := range g.Relations() {
		from, ok := aliases[rel.FromID()]
		if !ok {
			return "", fmt.Errorf("render %s: %w: %q", rel, objgraph.ErrUnknownEndpoint, rel.FromID())
		}
		to, ok := aliases[rel.ToID()]
		if !ok {
			return "", fmt.Errorf("render %s: %w: %q", rel, objgraph.ErrUnknownEndpoint, rel.ToID())
		}
		b.WriteString(relationLine(rel, from, to))
		b.WriteString("\n")
	}

	b.WriteString("@enduml\n")
	return b.String(), nil
}

func writeClass(b *strings.Builder, indent string, o objgraph.Object, alias string, hideFields bool) {
	fmt.Fprintf(b, "%sclass %s as %s", indent, quote(o.DisplayName()), alias)
	if o.HasStereotype() {
		fmt.Fprintf(b, " <<%s>>", o.Stereotype)
	}
	if hideFields || len(o.Fields) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, f := range o.Fields {
		fmt.Fprintf(b, "%s  %s\n", indent, fieldLine(f))
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func fieldLine(f objgraph.Field) string {
	if f.ElementType == "" {
		return f.Name
	}
	typ := f.ElementType
	if f.Plural {
		typ += "[]"
	}
	return f.Name + " : " + typ
}

func relationLine(rel objgraph.Relation, from, to string) string {
	switch rel.Type {
	case objgraph.Inheritance:
		return from + " --|> " + to
	case objgraph.BidirAssociation:
		return fmt.Sprintf("%s %s -- %s %s", from, quote(rel.NearLabel), quote(rel.FarLabel), to)
	default:
		line := from + " --> " + to
		if label := rel.LabelFormatted(); label != "" {
			line += " : " + label
		}
		return line
	}
}

// quote wraps s in double quotes. PlantUML has no escape for embedded
// quotes, so they become single quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

// newAliases maps object IDs to unique PlantUML identifiers.
func newAliases(objects []objgraph.Object) map[string]string {
	aliases := make(map[string]string, len(objects))
	used := make(map[string]bool, len(objects))
	for _, o := range objects {
		if _, ok := aliases[o.ID]; ok {
			continue
		}
		base := sanitize(o.ID)
		alias := base
		for n := 2; used[alias]; n++ {
			alias = fmt.Sprintf("%s_%d", base, n)
		}
		used[alias] = true
		aliases[o.ID] = alias
	}
	return aliases
}

func sanitize(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
