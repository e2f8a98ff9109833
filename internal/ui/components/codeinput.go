package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpath/internal/ui/theme"
)

// CodeInput collects a code submission line by line. The line being typed
// lives in a bubbles textinput; alt+enter commits it to the buffer.
type CodeInput struct {
	Model textinput.Model
	lines []string
}

func NewCodeInput(placeholder string, initial string) CodeInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	c := CodeInput{Model: ti}
	if initial != "" {
		c.lines = strings.Split(initial, "\n")
	}
	return c
}

func (c CodeInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages. The caller handles plain enter.
func (c CodeInput) Update(msg tea.Msg) (CodeInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "alt+enter":
			c.lines = append(c.lines, c.Model.Value())
			c.Model.SetValue("")
			return c, nil
		case "ctrl+u":
			if n := len(c.lines); n > 0 && c.Model.Value() == "" {
				c.Model.SetValue(c.lines[n-1])
				c.lines = c.lines[:n-1]
				return c, nil
			}
		}
	}

	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// Value returns the committed lines followed by the line being typed.
func (c CodeInput) Value() string {
	all := c.lines
	if v := c.Model.Value(); v != "" {
		all = append(all[:len(all):len(all)], v)
	}
	return strings.Join(all, "\n")
}

// Reset clears the buffer.
func (c *CodeInput) Reset() {
	c.lines = nil
	c.Model.SetValue("")
}

func (c CodeInput) View() string {
	var b strings.Builder
	if len(c.lines) > 0 {
		b.WriteString(theme.Code.Render(strings.Join(c.lines, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(c.Model.View())
	return b.String()
}
