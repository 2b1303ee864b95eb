package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// defaultPackageLabel stands in for the empty package name.
const defaultPackageLabel = "(default)"

// browseLevel is the screen the browser shows.
type browseLevel int

const (
	levelPackages browseLevel = iota
	levelObjects
	levelDetail
)

// =============================================================================
// BrowseModel - Interactive graph explorer
// =============================================================================

// BrowseModel is the bubbletea model for exploring a graph: packages, then
// the objects of a package, then the fields and relations of an object.
type BrowseModel struct {
	Groups    []objgraph.PackageGroup
	Level     browseLevel
	PkgCursor int
	ObjCursor int
	Height    int
	Offset    int

	relations map[string][]objgraph.Relation
}

// NewBrowseModel creates a browser over g.
func NewBrowseModel(g *objgraph.ObjectGraph) BrowseModel {
	rels := make(map[string][]objgraph.Relation)
	for _, r := range g.Relations() {
		rels[r.FromID()] = append(rels[r.FromID()], r)
		if !r.IsSelfReference() {
			rels[r.ToID()] = append(rels[r.ToID()], r)
		}
	}
	return BrowseModel{
		Groups:    g.ObjectsGroupedByPackage(),
		Height:    15,
		relations: rels,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			if m.Level == levelPackages {
				return m, tea.Quit
			}
			m.Level--
			m.Offset = 0
			m.scroll()
		case "enter", "right", "l":
			if m.Level < levelDetail && m.listLen() > 0 {
				m.Level++
				m.Offset = 0
				if m.Level == levelObjects {
					m.ObjCursor = 0
				}
			}
		case "up", "k":
			if c := m.cursor(); c != nil && *c > 0 {
				*c--
				m.scroll()
			}
		case "down", "j":
			if c := m.cursor(); c != nil && *c < m.listLen()-1 {
				*c++
				m.scroll()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

// cursor returns the cursor of the current list, nil on the detail screen.
func (m *BrowseModel) cursor() *int {
	switch m.Level {
	case levelPackages:
		return &m.PkgCursor
	case levelObjects:
		return &m.ObjCursor
	}
	return nil
}

func (m BrowseModel) listLen() int {
	switch m.Level {
	case levelPackages:
		return len(m.Groups)
	case levelObjects:
		return len(m.Groups[m.PkgCursor].Objects)
	}
	return 0
}

// scroll keeps the cursor inside the visible window.
func (m *BrowseModel) scroll() {
	c := m.cursor()
	if c == nil {
		return
	}
	if *c < m.Offset {
		m.Offset = *c
	}
	if *c >= m.Offset+m.Height {
		m.Offset = *c - m.Height + 1
	}
}

// Selected returns the object under the cursor on the objects or detail
// screen.
func (m BrowseModel) Selected() (objgraph.Object, bool) {
	if m.Level == levelPackages || len(m.Groups) == 0 {
		return objgraph.Object{}, false
	}
	return m.Groups[m.PkgCursor].Objects[m.ObjCursor], true
}

func (m BrowseModel) View() string {
	var b strings.Builder
	if len(m.Groups) == 0 {
		b.WriteString(StyleTitle.Render("Empty graph"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("q quit"))
		return b.String()
	}

	switch m.Level {
	case levelPackages:
		b.WriteString(StyleTitle.Render("Packages"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.packagesTable())
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.PkgCursor+1, len(m.Groups))))
	case levelObjects:
		grp := m.Groups[m.PkgCursor]
		b.WriteString(StyleTitle.Render(packageLabel(grp.Name)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.objectsTable())
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.ObjCursor+1, len(grp.Objects))))
	case levelDetail:
		o, _ := m.Selected()
		b.WriteString(m.detail(o))
	}
	return b.String()
}

func (m BrowseModel) packagesTable() string {
	end := min(m.Offset+m.Height, len(m.Groups))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		grp := m.Groups[i]
		rows = append(rows, []string{cursorMark(i == m.PkgCursor), packageLabel(grp.Name), strconv.Itoa(len(grp.Objects))})
	}
	return m.table(rows, m.PkgCursor, "", "Package", "Objects")
}

func (m BrowseModel) objectsTable() string {
	objects := m.Groups[m.PkgCursor].Objects
	end := min(m.Offset+m.Height, len(objects))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := objects[i]
		rows = append(rows, []string{
			cursorMark(i == m.ObjCursor),
			o.DisplayName(),
			o.Stereotype,
			strconv.Itoa(len(o.Fields)),
			strconv.Itoa(len(m.relations[o.ID])),
		})
	}
	return m.table(rows, m.ObjCursor, "", "Object", "Stereotype", "Fields", "Relations")
}

func (m BrowseModel) table(rows [][]string, cursor int, headers ...string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return listHeaderStyle
			case m.Offset+row == cursor:
				return listSelectedStyle
			case col == 0 || col > 1:
				return listDimStyle
			}
			return listNormalStyle
		}).
		Render()
}

func (m BrowseModel) detail(o objgraph.Object) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(o.DisplayName()))
	if o.HasStereotype() {
		b.WriteString(" " + listDimStyle.Render("«"+o.Stereotype+"»"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	b.WriteString(listHeaderStyle.Render("ID") + "       " + o.ID + "\n")
	b.WriteString(listHeaderStyle.Render("Package") + "  " + packageLabel(o.Package) + "\n\n")

	b.WriteString(listHeaderStyle.Render(fmt.Sprintf("Fields (%d)", len(o.Fields))) + "\n")
	for _, f := range o.Fields {
		typ := f.ElementType
		if f.Plural {
			typ += "[]"
		}
		b.WriteString("  " + listNormalStyle.Render(f.Name) + " " + listDimStyle.Render(typ) + "\n")
	}

	rels := m.relations[o.ID]
	b.WriteString("\n" + listHeaderStyle.Render(fmt.Sprintf("Relations (%d)", len(rels))) + "\n")
	for _, r := range rels {
		b.WriteString("  " + relationLine(o.ID, r) + "\n")
	}
	return b.String()
}

// relationLine describes r from the point of view of object id.
func relationLine(id string, r objgraph.Relation) string {
	arrow, other := iconArrow, r.To
	if r.ToID() == id && r.FromID() != id {
		arrow, other = "←", r.From
	}
	line := fmt.Sprintf("%s %s %s", arrow, listNormalStyle.Render(other.DisplayName()), listDimStyle.Render(r.Type.String()))
	if label := r.LabelFormatted(); label != "" {
		line += " " + label
	}
	if r.Type == objgraph.BidirAssociation {
		line += listDimStyle.Render(fmt.Sprintf(" (%s / %s)", r.NearLabel, r.FarLabel))
	}
	return line
}

// =============================================================================
// Helpers
// =============================================================================

func cursorMark(current bool) string {
	if current {
		return "▸"
	}
	return " "
}

func packageLabel(name string) string {
	if name == "" {
		return defaultPackageLabel
	}
	return name
}
