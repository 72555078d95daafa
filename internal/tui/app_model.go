// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/internal/guard"
	"github.com/MKhiriev/go-auth-session/internal/service"
	"github.com/MKhiriev/go-auth-session/models"
)

// appModel is the TUI router. Every location change and every session state
// change goes through resolve, which asks the guard what to show.
type appModel struct {
	ctx       context.Context
	session   service.SessionController
	guard     guard.Guard
	tracker   *locationTracker
	buildInfo models.AppBuildInfo

	state    models.SessionState
	location string
	returnTo string
	screen   screen
	loading  bool

	spinner  spinner.Model
	welcome  welcomeModel
	login    formModel
	register formModel
	edit     formModel

	status        string
	notice        string
	showError     bool
	errorOverlay  errorOverlayModel
	showConfirm   bool
	confirm       confirmModel
	showBuildInfo bool
}

func newAppModel(ctx context.Context, session service.SessionController, g guard.Guard, tracker *locationTracker, buildInfo models.AppBuildInfo) appModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := appModel{
		ctx:       ctx,
		session:   session,
		guard:     g,
		tracker:   tracker,
		buildInfo: buildInfo,
		state:     session.State(),
		location:  g.HomeLocation,
		spinner:   s,
		welcome:   newWelcomeModel(),
		login:     newLoginForm(),
		register:  newRegisterForm(),
		edit:      newEditForm(),
	}
	return m.resolve()
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdInitialize())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.forceQuit) {
			return m, tea.Quit
		}
		if m.showBuildInfo {
			if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
				m.showBuildInfo = false
			}
			return m, nil
		}
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
		if m.showConfirm {
			if key.Matches(msg, keys.yes) {
				m.showConfirm = false
				return m, m.cmdDeactivate()
			}
			if key.Matches(msg, keys.no) || key.Matches(msg, keys.esc) {
				m.showConfirm = false
			}
			return m, nil
		}
	case sessionChangedMsg:
		m.state = msg.state
		return m.resolve(), nil
	case initializedMsg:
		m.state = m.session.State()
		return m.resolve(), nil
	case redirectMsg:
		m.state = m.session.State()
		m.returnTo = msg.returnTo
		m.notice = "Сессия завершена сервером. Войдите снова."
		return m.navigate(m.guard.LoginLocation), nil
	case authResultMsg:
		return m.handleResult(msg)
	case loggedOutMsg:
		m.state = m.session.State()
		m.returnTo = ""
		m.notice = ""
		return m.navigate(m.guard.LoginLocation), nil
	case refreshedMsg:
		m.state = m.session.State()
		if msg.updated {
			m.status = "Профиль обновлён"
		} else {
			m.status = "Не удалось обновить профиль"
		}
		return m.resolve(), cmdClearStatus()
	case copiedMsg:
		m.status = "Скопировано!"
		return m, cmdClearStatus()
	case copyFailedMsg:
		m.showErrorf(msg.err.Error())
		return m, nil
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch m.screen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenProfile:
		return m.updateProfile(msg)
	case screenEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}
	if m.loading {
		return appStyle.Render(renderPage("go-auth-session", m.spinner.View()+" Загрузка...", ""))
	}

	var body string
	switch m.screen {
	case screenWelcome:
		body = m.welcome.View()
	case screenLogin:
		body = m.viewLogin()
	case screenRegister:
		body = m.viewRegister()
	case screenProfile:
		body = m.viewProfile()
	case screenEdit:
		body = m.viewEdit()
	}

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

// navigate moves to location and lets the guard correct it.
func (m appModel) navigate(location string) appModel {
	m.location = location
	return m.resolve()
}

// resolve applies guard decisions until one of them renders or shows the
// loading placeholder.
func (m appModel) resolve() appModel {
	for range maxRedirects {
		entry := routeFor(m.guard, m.location)
		decision := m.guard.Evaluate(m.state, entry.route, m.location)

		switch decision.Action {
		case guard.ShowLoading, guard.Render:
			m.loading = decision.Action == guard.ShowLoading
			m.enter(entry.screen)
			m.tracker.set(m.location)
			return m
		case guard.Redirect:
			target := decision.Target()
			if decision.ReturnTo != "" {
				m.returnTo = decision.ReturnTo
			}
			if m.state.IsAuthenticated() {
				target = m.guard.AfterLogin(m.returnTo)
				m.returnTo = ""
			}
			m.location = target
		}
	}

	m.location = locationWelcome
	m.enter(screenWelcome)
	m.tracker.set(m.location)
	return m
}

// enter prepares a screen the first time it becomes current.
func (m *appModel) enter(next screen) {
	if m.screen == next {
		return
	}
	m.screen = next

	switch next {
	case screenEdit:
		m.edit.reset()
		if m.state.User != nil {
			m.edit.setValue("email", m.state.User.Email)
			m.edit.setValue("username", m.state.User.Username)
		}
	case screenProfile:
		m.notice = ""
	}
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m appModel) handleResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.state = m.session.State()

	switch msg.op {
	case opLogin:
		if !msg.result.Success {
			m.login.fail(msg.result)
			return m.resolve(), nil
		}
		m.login.reset()
		m.notice = ""
	case opRegister:
		if !msg.result.Success {
			m.register.fail(msg.result)
			return m.resolve(), nil
		}
		m.register.reset()
		m.notice = ""
	case opUpdate:
		if !msg.result.Success {
			m.edit.fail(msg.result)
			return m.resolve(), nil
		}
		m.edit.submitting = false
		m.status = "Профиль сохранён"
		return m.navigate(m.guard.HomeLocation), cmdClearStatus()
	case opDeactivate:
		if !msg.result.Success {
			m.showErrorf(humanizeResult(msg.result))
			return m.resolve(), nil
		}
		m.returnTo = ""
		m.notice = "Учётная запись деактивирована"
		return m.navigate(m.guard.LoginLocation), nil
	}

	return m.resolve(), nil
}

func (m appModel) cmdInitialize() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		session.Initialize(ctx)
		return initializedMsg{}
	}
}

func (m appModel) cmdLogin(credentials models.LoginCredentials) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return authResultMsg{op: opLogin, result: session.Login(ctx, credentials)}
	}
}

func (m appModel) cmdRegister(credentials models.RegisterCredentials) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return authResultMsg{op: opRegister, result: session.Register(ctx, credentials)}
	}
}

func (m appModel) cmdUpdate(update models.UserUpdate) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return authResultMsg{op: opUpdate, result: session.UpdateUser(ctx, update)}
	}
}

func (m appModel) cmdDeactivate() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return authResultMsg{op: opDeactivate, result: session.Deactivate(ctx)}
	}
}

func (m appModel) cmdLogout() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		session.Logout(ctx)
		return loggedOutMsg{}
	}
}

func (m appModel) cmdRefresh() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return refreshedMsg{updated: session.Refresh(ctx)}
	}
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copyFailedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
