package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Options configures DOT generation.
type Options struct {
	// Title is drawn above the diagram when non-empty.
	Title string
	// HideFields renders plain boxes instead of records listing fields.
	HideFields bool
}

// Renderer writes DOT source. It implements [objgraph.Renderer].
type Renderer struct {
	opts Options
}

// New creates a DOT renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render writes g as DOT source to w.
func (r *Renderer) Render(w io.Writer, g *objgraph.ObjectGraph) error {
	src, err := ToDOT(g, r.opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, src)
	return err
}

// SVGRenderer lays the graph out with Graphviz and writes SVG.
type SVGRenderer struct {
	ctx  context.Context
	opts Options
}

// NewSVG creates an SVG renderer. ctx bounds the Graphviz layout.
func NewSVG(ctx context.Context, opts Options) *SVGRenderer {
	return &SVGRenderer{ctx: ctx, opts: opts}
}

// Render writes g as SVG to w.
func (r *SVGRenderer) Render(w io.Writer, g *objgraph.ObjectGraph) error {
	src, err := ToDOT(g, r.opts)
	if err != nil {
		return err
	}
	svg, err := RenderSVG(r.ctx, src)
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}

// ToDOT converts g to Graphviz DOT source. Relations whose endpoints are not
// objects of g are an error wrapping [objgraph.ErrUnknownEndpoint].
func ToDOT(g *objgraph.ObjectGraph, opts Options) (string, error) {
	idx, err := g.Index()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph objectgraph {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	cluster := 0
	for _, grp := range g.ObjectsGroupedByPackage() {
		indent := "  "
		if grp.Name != "" {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", cluster)
			fmt.Fprintf(&buf, "    label=%q;\n    style=rounded;\n", grp.Name)
			indent = "    "
			cluster++
		}
		for _, o := range grp.Objects {
			fmt.Fprintf(&buf, "%s%q [label=\"%s\"];\n", indent, o.ID, nodeLabel(o, opts.HideFields))
		}
		if grp.Name != "" {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, rel := range g.Relations() {
		for _, id := range []string{rel.FromID(), rel.ToID()} {
			if _, ok := idx.Lookup(id); !ok {
				return "", fmt.Errorf("render %s: %w: %q", rel, objgraph.ErrUnknownEndpoint, id)
			}
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", rel.FromID(), rel.ToID(), strings.Join(edgeAttrs(rel), ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeLabel(o objgraph.Object, hideFields bool) string {
	title := escapeRecord(o.DisplayName())
	if o.HasStereotype() {
		title = escapeRecord("«"+o.Stereotype+"»") + `\n` + title
	}
	if hideFields || len(o.Fields) == 0 {
		return title
	}
	var fields strings.Builder
	for _, f := range o.Fields {
		line := f.Name
		if f.ElementType != "" {
			line += " : " + f.ElementType
			if f.Plural {
				line += "[]"
			}
		}
		fields.WriteString(escapeRecord(line))
		fields.WriteString(`\l`)
	}
	return "{" + title + "|" + fields.String() + "}"
}

func edgeAttrs(rel objgraph.Relation) []string {
	switch rel.Type {
	case objgraph.Inheritance:
		return []string{"arrowhead=empty"}
	case objgraph.BidirAssociation:
		return []string{
			"dir=none",
			fmt.Sprintf("taillabel=%q", rel.NearLabel),
			fmt.Sprintf("headlabel=%q", rel.FarLabel),
		}
	case objgraph.MergedAssociations:
		return []string{"arrowhead=vee", "style=bold", fmt.Sprintf("label=%q", rel.LabelFormatted())}
	default:
		return []string{"arrowhead=vee", fmt.Sprintf("label=%q", rel.LabelFormatted())}
	}
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

// escapeRecord escapes characters with meaning inside record labels.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose size matches it, so the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
