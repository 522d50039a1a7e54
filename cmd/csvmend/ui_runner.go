package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"csvmend/internal/driver"
	"csvmend/internal/ui"
)

type diagOutcome struct {
	results []driver.FileResult
	err     error
}

func runDiagWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.DiagnoseFiles(ctx, files, optsCopy)
		outcomeCh <- diagOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	// the program may stop reading early; workers must never block on send
	go func() {
		for range events {
		}
	}()
	if ui.Interrupted(final) {
		cancel()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
