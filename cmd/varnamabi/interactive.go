package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/runtime"
)

// interactiveModel transliterates as the user types. Each keystroke that
// changes the input cancels the request in flight and starts a new one.
type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	input    textinput.Model
	st       styles
	filename string
	output   string
	report   string
	lastOp   runtime.OperationID
	pending  bool
	session  runtime.SessionID
	wasm     bool
	canceled int
}

type resultMsg struct {
	err    error
	output string
	report string
	op     runtime.OperationID
}

func newInteractiveModel(rt *runtime.Runtime, id runtime.SessionID, filename string, wasm bool) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "type a word"
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()
	return &interactiveModel{
		rt:       rt,
		session:  id,
		filename: filename,
		input:    ti,
		st:       newStyles(true),
		wasm:     wasm,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.pending {
				m.rt.Cancel(m.lastOp)
			}
			return m, tea.Quit
		}

	case resultMsg:
		if msg.op != m.lastOp {
			return m, nil
		}
		m.pending = false
		if errors.KindOf(msg.err) == errors.KindCanceled {
			m.canceled++
			return m, nil
		}
		m.err = msg.err
		m.output = msg.output
		m.report = msg.report
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	word := strings.TrimSpace(m.input.Value())
	if m.input.Value() == before {
		return m, cmd
	}

	if m.pending && m.rt.Cancel(m.lastOp) == errors.StatusSuccess {
		m.canceled++
	}
	if word == "" {
		m.pending = false
		m.output, m.report, m.err = "", "", nil
		return m, cmd
	}
	m.lastOp++
	m.pending = true
	return m, tea.Batch(cmd, m.transliterate(m.lastOp, word))
}

func (m *interactiveModel) transliterate(op runtime.OperationID, word string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.rt.TransliterateWithID(context.Background(), m.session, op, word)
		if err != nil {
			return resultMsg{op: op, err: err}
		}
		msg := resultMsg{op: op, output: m.st.renderResult(word, res)}
		if !m.wasm {
			res.Destroy()
			return msg
		}
		rep, err := exportReport(m.rt, res)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.report = m.st.renderReport(rep)
		return msg
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("varnam"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.st.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.output != "":
		b.WriteString(m.output)
		b.WriteString(m.report)
	}

	b.WriteString("\n")
	b.WriteString(m.st.help.Render(fmt.Sprintf("esc quit • %d cancelled", m.canceled)))
	return b.String()
}

func runInteractive(rt *runtime.Runtime, id runtime.SessionID, filename string, wasm bool) error {
	p := tea.NewProgram(newInteractiveModel(rt, id, filename, wasm), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
