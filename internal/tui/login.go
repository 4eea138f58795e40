package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/auth"
)

type loginView struct {
	gate   *auth.Gate
	pin    textinput.Model
	styles *styles
	failed bool
}

func newLoginView(gate *auth.Gate) *loginView {
	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.EchoMode = textinput.EchoPassword
	pin.CharLimit = 16
	pin.Focus()

	return &loginView{
		gate:   gate,
		pin:    pin,
		styles: newStyles(),
	}
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return tea.Quit
		case "enter":
			if v.gate.Login(v.pin.Value()) {
				return func() tea.Msg { return loggedInMsg{} }
			}
			// неверный PIN: право записи не выдано
			v.failed = true
			v.pin.SetValue("")
			return nil
		case "tab":
			// без входа доступно только чтение
			return func() tea.Msg { return skipLoginMsg{} }
		}
	}

	var cmd tea.Cmd
	v.pin, cmd = v.pin.Update(msg)
	return cmd
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("taskboard") + "\n\n")
	b.WriteString(v.styles.InputLabel.Render("Введите PIN для права записи") + "\n")
	b.WriteString(v.pin.View() + "\n\n")
	if v.failed {
		b.WriteString(v.styles.Error.Render("Неверный PIN") + "\n\n")
	}
	b.WriteString(v.styles.Subtle.Render("enter — войти · tab — только чтение · esc — выход"))
	return b.String()
}
