package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginForm is the login/register screen. Tab cycles fields, ctrl+r toggles
// between the two modes, enter submits.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	fullName textinput.Model

	register   bool
	focus      int
	submitting bool
	errMsg     string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	fullName := textinput.New()
	fullName.Placeholder = "full name"
	fullName.CharLimit = 128

	return loginForm{email: email, password: password, fullName: fullName}
}

// fields returns the focusable inputs for the current mode, in tab order.
func (f *loginForm) fields() []*textinput.Model {
	if f.register {
		return []*textinput.Model{&f.fullName, &f.email, &f.password}
	}
	return []*textinput.Model{&f.email, &f.password}
}

func (f *loginForm) cycleFocus(delta int) {
	fields := f.fields()
	f.focus = (f.focus + delta + len(fields)) % len(fields)
	for i, in := range fields {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *loginForm) toggleMode() {
	f.register = !f.register
	f.errMsg = ""
	f.focus = 0
	for _, in := range f.fields() {
		in.Blur()
	}
	f.fields()[0].Focus()
}

// validate returns a user-facing message when the form cannot be submitted.
func (f *loginForm) validate() string {
	if strings.TrimSpace(f.email.Value()) == "" || f.password.Value() == "" {
		return "email and password are required"
	}
	if f.register && strings.TrimSpace(f.fullName.Value()) == "" {
		return "full name is required"
	}
	return ""
}

func (f *loginForm) reset() {
	f.password.SetValue("")
	f.submitting = false
}

func (f loginForm) updateInputs(msg tea.Msg) (loginForm, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 3)
	var cmd tea.Cmd
	f.email, cmd = f.email.Update(msg)
	cmds = append(cmds, cmd)
	f.password, cmd = f.password.Update(msg)
	cmds = append(cmds, cmd)
	f.fullName, cmd = f.fullName.Update(msg)
	cmds = append(cmds, cmd)
	return f, tea.Batch(cmds...)
}

func (f loginForm) view(width, height int) string {
	title := "redlens — sign in"
	action := "[enter] sign in   [ctrl+r] create account"
	if f.register {
		title = "redlens — create account"
		action = "[enter] register   [ctrl+r] back to sign in"
	}

	var b strings.Builder
	b.WriteString(TitleBar.Render(title))
	b.WriteString("\n\n")
	if f.register {
		b.WriteString(FormLabel.Render("Name") + "\n" + f.fullName.View() + "\n\n")
	}
	b.WriteString(FormLabel.Render("Email") + "\n" + f.email.View() + "\n\n")
	b.WriteString(FormLabel.Render("Password") + "\n" + f.password.View() + "\n")

	if f.submitting {
		b.WriteString("\n" + StatusBarText.Render("contacting backend..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n" + ErrorStyle.Render(f.errMsg))
	}
	b.WriteString("\n" + HelpStyle.Render(action))

	box := FormBox.Render(b.String())
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
