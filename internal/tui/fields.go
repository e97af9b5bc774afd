package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/fintrack/internal/tui/styles"
)

// choice is one option of a picker field.
type choice struct {
	value string
	label string
}

// field is a single form row: either a text input or a picker cycled with
// left/right.
type field struct {
	key      string
	label    string
	input    textinput.Model
	choices  []choice
	selected int
	picker   bool
}

func newTextField(key, label, value string) field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	in.Width = 32
	in.Cursor.SetMode(cursor.CursorStatic)
	in.SetValue(value)
	return field{key: key, label: label, input: in}
}

func newPasswordField(key, label string) field {
	f := newTextField(key, label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// newChoiceField selects the choice whose value equals value, or the first.
func newChoiceField(key, label string, choices []choice, value string) field {
	f := field{key: key, label: label, choices: choices, picker: true}
	for i, c := range choices {
		if c.value == value {
			f.selected = i
			break
		}
	}
	return f
}

func (f field) value() string {
	if !f.picker {
		return f.input.Value()
	}
	if len(f.choices) == 0 {
		return ""
	}
	return f.choices[f.selected].value
}

func (f field) view(focused bool) string {
	label := styles.FieldLabel.Render(f.label)
	if focused {
		label = styles.FieldLabelFocused.Render(f.label)
	}

	if !f.picker {
		return label + f.input.View()
	}
	if len(f.choices) == 0 {
		return label + styles.Muted.Render("(none)")
	}
	text := f.choices[f.selected].label
	if focused {
		return label + styles.ChoiceFocused.Render("‹ "+text+" ›")
	}
	return label + styles.Choice.Render(text)
}

// fieldSet is an ordered group of fields with one focused at a time.
type fieldSet struct {
	fields []field
	focus  int
}

func newFieldSet(fields ...field) fieldSet {
	fs := fieldSet{fields: fields}
	fs.focusField(0)
	return fs
}

// focusField moves focus to i, wrapping around, and returns the focused
// input's command.
func (fs *fieldSet) focusField(i int) tea.Cmd {
	if len(fs.fields) == 0 {
		return nil
	}
	for j := range fs.fields {
		fs.fields[j].input.Blur()
	}
	fs.focus = (i%len(fs.fields) + len(fs.fields)) % len(fs.fields)
	if fs.fields[fs.focus].picker {
		return nil
	}
	return fs.fields[fs.focus].input.Focus()
}

func (fs *fieldSet) next() tea.Cmd { return fs.focusField(fs.focus + 1) }
func (fs *fieldSet) prev() tea.Cmd { return fs.focusField(fs.focus - 1) }

// focused returns the focused field, or nil for an empty set.
func (fs *fieldSet) focused() *field {
	if len(fs.fields) == 0 {
		return nil
	}
	return &fs.fields[fs.focus]
}

// cycle moves the focused picker by delta, wrapping around.
func (fs *fieldSet) cycle(delta int) {
	f := fs.focused()
	if f == nil || !f.picker || len(f.choices) == 0 {
		return
	}
	n := len(f.choices)
	f.selected = ((f.selected+delta)%n + n) % n
}

// update forwards msg to the focused text input.
func (fs *fieldSet) update(msg tea.Msg) tea.Cmd {
	f := fs.focused()
	if f == nil || f.picker {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (fs fieldSet) value(key string) string {
	for _, f := range fs.fields {
		if f.key == key {
			return f.value()
		}
	}
	return ""
}

func (fs fieldSet) view() string {
	rows := make([]string, 0, len(fs.fields))
	for i, f := range fs.fields {
		rows = append(rows, f.view(i == fs.focus))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderForm draws a titled form box with an optional error line.
func renderForm(title string, fs fieldSet, errText, hint string) string {
	var b strings.Builder
	b.WriteString(styles.Subtitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(fs.view())
	if errText != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorMsg.Render(errText))
	}
	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render(hint))
	}
	return styles.FormBox.Render(b.String())
}
