package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpath/internal/ui/theme"
)

// OptionList renders the options of a multiple choice question with a
// cursor and the learner's current choice.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  string
}

func NewOptionList(options []string, chosen string) OptionList {
	o := OptionList{Options: options, Chosen: chosen}
	for i, opt := range options {
		if opt == chosen {
			o.Cursor = i
			break
		}
	}
	return o
}

// Up moves the cursor up.
func (o *OptionList) Up() {
	if o.Cursor > 0 {
		o.Cursor--
	}
}

// Down moves the cursor down.
func (o *OptionList) Down() {
	if o.Cursor < len(o.Options)-1 {
		o.Cursor++
	}
}

// AtDigit maps a 1-based digit key to an option. ok is false when the
// key is not a digit or is out of range.
func (o OptionList) AtDigit(key string) (string, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	i := int(key[0] - '1')
	if i >= len(o.Options) {
		return "", false
	}
	return o.Options[i], true
}

// Current returns the option under the cursor.
func (o OptionList) Current() string {
	if len(o.Options) == 0 {
		return ""
	}
	return o.Options[o.Cursor]
}

func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "> "
		}
		mark := " "
		if opt == o.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", prefix, i+1, mark, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == o.Cursor:
			style = theme.Selected
		case opt == o.Chosen:
			style = theme.Answered
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
