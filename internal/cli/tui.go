package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tbetodo/internal/update"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	m := update.NewModel(cmd.Context(), a.tracker, update.RuntimeConfig{
		PaneWidth:  a.cfg.UI.PaneWidth,
		ListHeight: a.cfg.UI.ListHeight,
	})
	if a.loadErr != nil {
		m = m.WithError(fmt.Errorf("could not load tasks, starting empty: %w", a.loadErr))
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
