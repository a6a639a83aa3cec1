package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	program := tea.NewProgram(NewModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
