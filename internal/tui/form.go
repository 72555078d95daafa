// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/models"
)

// formField is one labelled input. name matches the JSON field name used by
// the API, so server field errors land next to the right input.
type formField struct {
	name  string
	label string
	input textinput.Model
}

// formModel is a vertical list of inputs with a submit line, a form-level
// message and per-field errors.
type formModel struct {
	fields     []formField
	focus      int
	submitting bool
	message    string
	errors     models.FieldErrors
}

func newTextField(name, label, placeholder string, charLimit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = charLimit
	in.Width = 40
	return formField{name: name, label: label, input: in}
}

func newPasswordField(name, label, placeholder string) formField {
	f := newTextField(name, label, placeholder, 256)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

func newFormModel(fields ...formField) formModel {
	f := formModel{fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f formModel) value(name string) string {
	for _, field := range f.fields {
		if field.name == name {
			return field.input.Value()
		}
	}
	return ""
}

func (f *formModel) setValue(name, v string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(v)
		}
	}
}

func (f *formModel) focusNext() {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + 1) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModel) focusPrev() {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModel) reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
		f.fields[i].input.Blur()
	}
	f.focus = 0
	f.fields[f.focus].input.Focus()
	f.submitting = false
	f.message = ""
	f.errors = nil
}

// fail shows a failed result on the form.
func (f *formModel) fail(result models.AuthResult) {
	f.submitting = false
	f.errors = result.Errors
	f.message = humanizeResult(result)
}

// failLocal shows a message produced before anything was sent.
func (f *formModel) failLocal(message string) {
	f.submitting = false
	f.errors = nil
	f.message = message
}

// update forwards msg to the focused input.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f formModel) view(submitLabel string) string {
	width := 0
	for _, field := range f.fields {
		width = max(width, len([]rune(field.label)))
	}

	var b strings.Builder
	for _, field := range f.fields {
		b.WriteString(field.label)
		b.WriteString(strings.Repeat(" ", width-len([]rune(field.label))))
		b.WriteString(" │ [")
		b.WriteString(field.input.View())
		b.WriteString("]\n")
		for _, msg := range f.errors[field.name] {
			b.WriteString(strings.Repeat(" ", width))
			b.WriteString(" │ ")
			b.WriteString(fieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	if f.submitting {
		b.WriteString("\n[" + submitLabel + "...]\n")
	} else {
		b.WriteString("\n[" + submitLabel + "]\n")
	}

	if f.message != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(f.message)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
