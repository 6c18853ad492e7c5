package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/generate"
	"github.com/theirongolddev/codeassist/internal/model"
)

type completionDoneMsg struct {
	err error
}

type completionSpinnerModel struct {
	spinner spinner.Model
	label   string
	call    tea.Cmd
	err     error
	done    bool
}

func newCompletionSpinnerModel(label string, call tea.Cmd) completionSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(cli.ColorAccent)),
	)

	return completionSpinnerModel{
		spinner: s,
		label:   label,
		call:    call,
	}
}

func (m completionSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call)
}

func (m completionSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case completionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m completionSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// spinnerCompleter shows a spinner on out while the wrapped call blocks.
type spinnerCompleter struct {
	inner generate.Completer
	out   io.Writer
	verb  string
}

func (s spinnerCompleter) Complete(ctx context.Context, modelID string, messages []model.Message) (model.Completion, error) {
	var comp model.Completion
	call := func() tea.Msg {
		var err error
		comp, err = s.inner.Complete(ctx, modelID, messages)
		return completionDoneMsg{err: err}
	}

	p := tea.NewProgram(
		newCompletionSpinnerModel(fmt.Sprintf("%s with %s...", s.verb, modelID), call),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return model.Completion{}, err
	}

	result, ok := finalModel.(completionSpinnerModel)
	if !ok {
		return model.Completion{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}
	if result.err != nil {
		return model.Completion{}, result.err
	}
	return comp, nil
}

// withProgress wraps c in a spinner when out is a terminal, and otherwise
// prints a single status line.
func withProgress(c generate.Completer, out io.Writer, verb string) generate.Completer {
	if flagQuiet {
		return c
	}
	if isTerminal(out) {
		return spinnerCompleter{inner: c, out: out, verb: verb}
	}
	return statusCompleter{inner: c, out: out, verb: verb}
}

type statusCompleter struct {
	inner generate.Completer
	out   io.Writer
	verb  string
}

func (s statusCompleter) Complete(ctx context.Context, modelID string, messages []model.Message) (model.Completion, error) {
	_, _ = fmt.Fprintf(s.out, "%s with %s...\n", s.verb, modelID)
	return s.inner.Complete(ctx, modelID, messages)
}
