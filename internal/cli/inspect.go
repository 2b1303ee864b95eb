package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/objgraph/transform"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
	"github.com/matzehuels/objectgraph/pkg/source"
)

// relationTypes lists relation types in display order.
var relationTypes = []objgraph.RelationType{
	objgraph.OneToOne,
	objgraph.OneToMany,
	objgraph.MergedAssociations,
	objgraph.BidirAssociation,
	objgraph.Inheritance,
}

// summary is the --json output of inspect.
type summary struct {
	Objects         int            `json:"objects"`
	Packages        []packageCount `json:"packages"`
	RelationsBefore int            `json:"relations_before"`
	RelationsAfter  int            `json:"relations_after"`
	ByType          map[string]int `json:"by_type"`
	Report          mergeSummary   `json:"report"`
}

type packageCount struct {
	Name    string `json:"name"`
	Objects int    `json:"objects"`
}

type mergeSummary struct {
	SameDirectionMerged int             `json:"same_direction_merged"`
	BidirectionalMerged int             `json:"bidirectional_merged"`
	Unpaired            []unpairedGroup `json:"unpaired,omitempty"`
}

type unpairedGroup struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Relations int    `json:"relations"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		sf     sourceFlags
		tf     transformFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Print statistics and the merge report for a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			applyTransformConfig(cmd, cfg.Render.Merge, cfg.Render.Humanize, &tf)

			g, before, report, err := c.loadGraphWithCount(cmd.Context(), args[0], sf, tf)
			if err != nil {
				return err
			}
			s := newSummary(g, before, report)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSuccess("Inspected %s", displayRef(args[0]))
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	addTransformFlags(cmd, &tf)
	addSourceFlags(cmd, &sf)

	return cmd
}

// loadGraph opens ref, builds its graph, and applies the transforms.
func (c *CLI) loadGraph(ctx context.Context, ref string, sf sourceFlags, tf transformFlags) (*objgraph.ObjectGraph, transform.Report, error) {
	g, _, report, err := c.loadGraphWithCount(ctx, ref, sf, tf)
	return g, report, err
}

// loadGraphWithCount is loadGraph that also returns the relation count
// before transforms.
func (c *CLI) loadGraphWithCount(ctx context.Context, ref string, sf sourceFlags, tf transformFlags) (*objgraph.ObjectGraph, int, transform.Report, error) {
	logger := sourceLogger(ctx, ref)
	prog := newProgress(logger)

	src, err := source.Open(ctx, ref, sf.options(logger))
	if err != nil {
		return nil, 0, transform.Report{}, err
	}
	defer src.Close()

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, 0, transform.Report{}, err
	}
	defer runner.Close()

	g, err := runner.Create(ctx, src)
	if err != nil {
		return nil, 0, transform.Report{}, err
	}
	opts := pipeline.Options{Logger: logger}
	tf.apply(&opts)
	out, report, err := runner.Transform(ctx, g, opts)
	if err != nil {
		return nil, 0, transform.Report{}, err
	}
	prog.done(fmt.Sprintf("Loaded %s", plural(out.ObjectCount(), "object", "objects")))
	return out, g.RelationCount(), report, nil
}

func newSummary(g *objgraph.ObjectGraph, before int, report transform.Report) summary {
	st := g.Stats()
	s := summary{
		Objects:         st.Objects,
		Packages:        []packageCount{},
		RelationsBefore: before,
		RelationsAfter:  st.Relations,
		ByType:          make(map[string]int, len(st.ByType)),
		Report: mergeSummary{
			SameDirectionMerged: report.SameDirectionMerged,
			BidirectionalMerged: report.BidirectionalMerged,
		},
	}
	for _, u := range report.Unpaired {
		s.Report.Unpaired = append(s.Report.Unpaired, unpairedGroup{A: u.A, B: u.B, Relations: u.Relations})
	}
	for typ, n := range st.ByType {
		s.ByType[typ.String()] = n
	}
	for _, grp := range g.ObjectsGroupedByPackage() {
		s.Packages = append(s.Packages, packageCount{Name: grp.Name, Objects: len(grp.Objects)})
	}
	return s
}

func printSummary(w io.Writer, s summary) {
	row := func(key, value string) {
		keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
		fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
	}
	row("Objects", strconv.Itoa(s.Objects))
	row("Packages", strconv.Itoa(len(s.Packages)))
	row("Relations", fmt.Sprintf("%d %s %d", s.RelationsBefore, iconArrow, s.RelationsAfter))
	row("Merged", fmt.Sprintf("%d same-direction, %d bidirectional",
		s.Report.SameDirectionMerged, s.Report.BidirectionalMerged))
	fmt.Fprintln(w)

	rows := [][]string{}
	for _, typ := range relationTypes {
		if n := s.ByType[typ.String()]; n > 0 {
			rows = append(rows, []string{typ.String(), strconv.Itoa(n)})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, summaryTable([]string{"Relation type", "Count"}, rows))
	}

	rows = nil
	for _, p := range s.Packages {
		rows = append(rows, []string{packageLabel(p.Name), strconv.Itoa(p.Objects)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, summaryTable([]string{"Package", "Objects"}, rows))
	}

	for _, u := range s.Report.Unpaired {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+
			StyleWarning.Render(fmt.Sprintf("%d relations between %s and %s left unmerged", u.Relations, u.A, u.B)))
	}
}

func summaryTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			if col > 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
			}
			return listNormalStyle
		}).
		Render()
}
