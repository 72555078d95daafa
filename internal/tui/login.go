// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/models"
)

func newLoginForm() formModel {
	return newFormModel(
		newTextField("email", "E-mail", "user@example.com", 254),
		newPasswordField("password", "Пароль", "password"),
	)
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.login.reset()
			return m.navigate(locationWelcome), nil
		case key.Matches(keyMsg, keys.tab):
			m.login.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.login.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.login.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.login.value("email"))
			pass := m.login.value("password")
			if email == "" || pass == "" {
				m.login.failLocal("E-mail и пароль обязательны")
				return m, nil
			}

			m.login.message = ""
			m.login.errors = nil
			m.login.submitting = true
			return m, m.cmdLogin(models.LoginCredentials{Email: email, Password: pass})
		}
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(m.login.view("Войти"))

	return renderPage("ВХОД", b.String(), "esc: назад │ tab: след. поле │ enter: подтвердить")
}
