// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/models"
)

func newRegisterForm() formModel {
	return newFormModel(
		newTextField("email", "E-mail", "user@example.com", 254),
		newTextField("username", "Имя пользователя", "username", 100),
		newPasswordField("password", "Пароль", "password"),
		newPasswordField("repeat", "Повтор пароля", "repeat password"),
	)
}

func (m appModel) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.register.reset()
			return m.navigate(locationWelcome), nil
		case key.Matches(keyMsg, keys.tab):
			m.register.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.register.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.register.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.register.value("email"))
			username := strings.TrimSpace(m.register.value("username"))
			pass := m.register.value("password")
			repeat := m.register.value("repeat")

			if email == "" || username == "" || pass == "" {
				m.register.failLocal("Все поля обязательны")
				return m, nil
			}
			if pass != repeat {
				m.register.failLocal("Пароли не совпадают")
				return m, nil
			}

			m.register.message = ""
			m.register.errors = nil
			m.register.submitting = true
			return m, m.cmdRegister(models.RegisterCredentials{
				Email:    email,
				Username: username,
				Password: pass,
			})
		}
	}

	var cmd tea.Cmd
	m.register, cmd = m.register.update(msg)
	return m, cmd
}

func (m appModel) viewRegister() string {
	return renderPage("РЕГИСТРАЦИЯ", m.register.view("Зарегистрироваться"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}
