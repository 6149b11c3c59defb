// Package tui is the interactive terminal keypad.
//
// The display shows the expression above the result. While a result is
// shown the expression is dimmed and the result is drawn in green, the
// way the calculator's own display does it. Keys typed at the terminal are
// resolved through the keypad, so * and / work alongside × and ÷.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/keypad"
)

// Model is the bubbletea model for one calculator session.
type Model struct {
	ctx     context.Context
	session *engine.Session
	keys    keyMap
	help    help.Model
	layout  [][]engine.Key

	last     *ir.Press
	tapeErr  error
	quitting bool
}

// New creates a model driving session. ctx bounds tape writes.
func New(ctx context.Context, session *engine.Session) Model {
	return Model{
		ctx:     ctx,
		session: session,
		keys:    defaultKeyMap(),
		help:    help.New(),
		layout:  keypad.Layout(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		k, err := keypad.Resolve(msg.String())
		if err != nil {
			// not a calculator key
			return m, nil
		}
		return m.press(k), nil
	}

	return m, nil
}

func (m Model) press(k engine.Key) Model {
	p, err := m.session.Press(m.ctx, k)
	if err != nil {
		// The engine already applied the press; only the tape is behind.
		m.tapeErr = err
	}
	m.last = &p
	return m
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderDisplay())
	b.WriteString("\n")
	b.WriteString(m.renderKeypad())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderDisplay() string {
	eng := m.session.Engine()
	expression := eng.Expression()
	result := eng.Result()

	exprStyle := expressionStyle
	if result != "" {
		exprStyle = expressionDimStyle
	}

	// keep both lines so the display does not change height
	if expression == "" {
		expression = " "
	}
	if result == "" {
		result = " "
	}

	content := lipgloss.JoinVertical(lipgloss.Right,
		exprStyle.Render(expression),
		resultStyle.Render(result),
	)
	return displayStyle.Width(keyWidth * 4).Render(content)
}

func (m Model) renderKeypad() string {
	rows := make([]string, 0, len(m.layout))
	for _, row := range m.layout {
		cells := make([]string, 0, len(row))
		for _, k := range row {
			style := keyStyle
			if k.Kind == engine.KeyOperator {
				style = operatorKeyStyle
			}
			if m.last != nil && m.last.Key == k.Label() {
				style = pressedKeyStyle
			}
			if len(row) == 1 {
				style = style.Width(keyWidth * 4)
			}
			cells = append(cells, style.Render(k.Label()))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatus() string {
	if m.tapeErr != nil {
		return tapeErrorStyle.Render(fmt.Sprintf("tape: %v", m.tapeErr))
	}
	if m.last == nil {
		return statusStyle.Render("session " + m.session.ID())
	}
	return statusStyle.Render(fmt.Sprintf("#%d %s %s", m.last.Seq, m.last.Key, m.last.Outcome))
}

// Run starts the interactive keypad on the terminal and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, session *engine.Session, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, session), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run keypad: %w", err)
	}
	return nil
}
