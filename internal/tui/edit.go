// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/models"
)

func newEditForm() formModel {
	return newFormModel(
		newTextField("email", "E-mail", "user@example.com", 254),
		newTextField("username", "Имя пользователя", "username", 100),
		newPasswordField("password", "Новый пароль", "оставьте пустым"),
		newPasswordField("repeat", "Повтор пароля", "оставьте пустым"),
	)
}

func (m appModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			return m.navigate(m.guard.HomeLocation), nil
		case key.Matches(keyMsg, keys.tab):
			m.edit.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.edit.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.edit.submitting {
				return m, nil
			}

			update, message := m.userUpdate()
			if message != "" {
				m.edit.failLocal(message)
				return m, nil
			}

			m.edit.message = ""
			m.edit.errors = nil
			m.edit.submitting = true
			return m, m.cmdUpdate(update)
		}
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.update(msg)
	return m, cmd
}

// userUpdate collects the fields that differ from the current user. A
// non-empty message explains why nothing can be sent.
func (m appModel) userUpdate() (models.UserUpdate, string) {
	var (
		update  models.UserUpdate
		current models.User
	)
	if m.state.User != nil {
		current = *m.state.User
	}

	if email := strings.TrimSpace(m.edit.value("email")); email != "" && email != current.Email {
		update.Email = &email
	}
	if username := strings.TrimSpace(m.edit.value("username")); username != "" && username != current.Username {
		update.Username = &username
	}
	if pass := m.edit.value("password"); pass != "" {
		if pass != m.edit.value("repeat") {
			return models.UserUpdate{}, "Пароли не совпадают"
		}
		update.Password = &pass
	}

	if update.IsEmpty() {
		return models.UserUpdate{}, "Нет изменений"
	}
	return update, ""
}

func (m appModel) viewEdit() string {
	return renderPage("ИЗМЕНЕНИЕ ПРОФИЛЯ", m.edit.view("Сохранить"), "esc: назад │ tab: след. поле │ enter: сохранить")
}
