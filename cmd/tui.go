package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/desertthunder/sinewave/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal client.
//
// While it runs, session terminations switch the program to its login view instead of printing a notice.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	r.SetLogger(fileLogger)

	if err := r.init(); err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.NewLibrary(r.services), fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	nav := &ui.Navigator{}
	nav.Attach(p)
	restore := r.navigator.use(nav)
	defer func() {
		nav.Attach(nil)
		restore()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
