package cli

import (
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgraph/pkg/errors"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		sf sourceFlags
		tf transformFlags
	)

	cmd := &cobra.Command{
		Use:   "browse <source>",
		Short: "Explore a graph interactively by package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			applyTransformConfig(cmd, cfg.Render.Merge, cfg.Render.Humanize, &tf)

			g, _, err := c.loadGraph(cmd.Context(), args[0], sf, tf)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(g), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
				return errors.Wrap(errors.ErrCodeInternal, err, "run browser")
			}
			return nil
		},
	}

	addTransformFlags(cmd, &tf)
	addSourceFlags(cmd, &sf)

	return cmd
}
