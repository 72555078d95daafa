// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.edit):
		return m.navigate(locationEdit), nil
	case key.Matches(keyMsg, keys.refresh):
		return m, m.cmdRefresh()
	case key.Matches(keyMsg, keys.copy):
		if m.state.User == nil || m.state.User.ID == "" {
			return m, nil
		}
		return m, cmdCopyToClipboard(m.state.User.ID)
	case key.Matches(keyMsg, keys.deactivate):
		m.showConfirm = true
		m.confirm.message = "Деактивировать учётную запись? Вход станет невозможен."
	case key.Matches(keyMsg, keys.logout):
		return m, m.cmdLogout()
	case key.Matches(keyMsg, keys.info):
		m.showBuildInfo = true
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) viewProfile() string {
	user := m.state.User
	if user == nil {
		return renderPage("ПРОФИЛЬ", "", "")
	}

	var b strings.Builder
	b.WriteString("Поле            │ Значение\n")
	b.WriteString("────────────────┼────────────────────────────────────\n")
	b.WriteString("ID              │ " + valueOrDash(user.ID) + "\n")
	b.WriteString("E-mail          │ " + valueOrDash(user.Email) + "\n")
	b.WriteString("Имя             │ " + valueOrDash(user.Username) + "\n")
	b.WriteString("Активен         │ " + yesNo(user.IsActive) + "\n")
	b.WriteString("Администратор   │ " + yesNo(user.IsSuperuser) + "\n")
	b.WriteString("Создан          │ " + formatTime(user.CreatedAt) + "\n")
	b.WriteString("Изменён         │ " + formatTime(user.UpdatedAt) + "\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.status))
		b.WriteString("\n")
	}

	return renderPage("ПРОФИЛЬ", strings.TrimRight(b.String(), "\n"),
		"e: изменить │ r: обновить │ c: копировать ID │ d: деактивировать │ l: выйти │ v: о программе │ q: выход")
}
