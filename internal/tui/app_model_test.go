// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-auth-session/internal/guard"
	"github.com/MKhiriev/go-auth-session/internal/mock"
	"github.com/MKhiriev/go-auth-session/models"
)

var (
	testUser = &models.User{ID: "u-1", Email: "user@x.com", Username: "user", IsActive: true}

	unauthenticated = models.SessionState{Status: models.SessionUnauthenticated}
	authenticated   = models.SessionState{Status: models.SessionAuthenticated, User: testUser}
)

// testSession wraps the mock so that State returns whatever current holds.
type testSession struct {
	*mock.MockSessionController
	current models.SessionState
}

func newTestModel(t *testing.T, initial models.SessionState) (appModel, *testSession) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ts := &testSession{MockSessionController: mock.NewMockSessionController(ctrl), current: initial}
	ts.EXPECT().State().DoAndReturn(func() models.SessionState { return ts.current }).AnyTimes()

	g := guard.Guard{LoginLocation: "/login", HomeLocation: "/profile"}
	m := newAppModel(context.Background(), ts, g, newLocationTracker(""), models.AppBuildInfo{})
	return m, ts
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	require.True(t, ok)
	return am, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func TestNewAppModel_ShowsLoadingBeforeInitialize(t *testing.T) {
	m, _ := newTestModel(t, models.SessionState{})

	assert.True(t, m.loading)
	assert.Equal(t, "/profile", m.location)
	assert.Contains(t, m.View(), "Загрузка")
}

func TestInitialize_UnauthenticatedRedirectsToLogin(t *testing.T) {
	m, ts := newTestModel(t, models.SessionState{})

	ts.EXPECT().Initialize(gomock.Any()).Do(func(context.Context) { ts.current = unauthenticated })
	msg := m.cmdInitialize()()
	require.IsType(t, initializedMsg{}, msg)

	m, _ = update(t, m, msg)

	assert.False(t, m.loading)
	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, "/login", m.location)
	assert.Equal(t, "/profile", m.returnTo)
	assert.Equal(t, "/login", m.tracker.get())
}

func TestInitialize_AuthenticatedRendersProfile(t *testing.T) {
	m, _ := newTestModel(t, models.SessionState{})

	m, _ = update(t, m, sessionChangedMsg{state: authenticated})

	assert.Equal(t, screenProfile, m.screen)
	assert.Contains(t, m.View(), "user@x.com")
}

func TestLogin_SuccessGoesToRememberedLocation(t *testing.T) {
	m, ts := newTestModel(t, unauthenticated)
	m.returnTo = "/profile/edit"
	m = m.navigate("/login")
	require.Equal(t, screenLogin, m.screen)

	m.login.setValue("email", " user@x.com ")
	m.login.setValue("password", "secret1")

	m, cmd := update(t, m, keyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.login.submitting)

	ts.EXPECT().
		Login(gomock.Any(), models.LoginCredentials{Email: "user@x.com", Password: "secret1"}).
		DoAndReturn(func(context.Context, models.LoginCredentials) models.AuthResult {
			ts.current = authenticated
			return models.Succeeded(&models.Token{AccessToken: "t"}, testUser)
		})

	m, _ = update(t, m, cmd())

	assert.Equal(t, screenEdit, m.screen)
	assert.Equal(t, "/profile/edit", m.location)
	assert.Empty(t, m.returnTo)
	assert.False(t, m.login.submitting)
	assert.Empty(t, m.login.value("password"))
	// форма редактирования заполнена текущими значениями
	assert.Equal(t, "user@x.com", m.edit.value("email"))
}

func TestLogin_FailureShowsMessageAndFieldErrors(t *testing.T) {
	m, ts := newTestModel(t, unauthenticated)
	m = m.navigate("/login")

	m.login.setValue("email", "bad")
	m.login.setValue("password", "x")
	m, cmd := update(t, m, keyEnter)
	require.NotNil(t, cmd)

	ts.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.AuthResult{
		Message: "validation failed",
		Errors:  models.FieldErrors{"email": {"email must be a valid email"}},
	})

	m, _ = update(t, m, cmd())

	assert.Equal(t, screenLogin, m.screen)
	assert.False(t, m.login.submitting)
	assert.Equal(t, "Проверьте правильность заполнения полей", m.login.message)
	assert.Contains(t, m.View(), "email must be a valid email")
}

func TestLogin_EmptyFieldsRejectedLocally(t *testing.T) {
	m, _ := newTestModel(t, unauthenticated)
	m = m.navigate("/login")

	m, cmd := update(t, m, keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "E-mail и пароль обязательны", m.login.message)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	m, _ := newTestModel(t, unauthenticated)
	m = m.navigate(locationRegister)
	require.Equal(t, screenRegister, m.screen)

	m.register.setValue("email", "new@x.com")
	m.register.setValue("username", "newbie")
	m.register.setValue("password", "secret1")
	m.register.setValue("repeat", "secret2")

	m, cmd := update(t, m, keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "Пароли не совпадают", m.register.message)
}

func TestRegister_SubmitsCredentials(t *testing.T) {
	m, ts := newTestModel(t, unauthenticated)
	m = m.navigate(locationRegister)

	m.register.setValue("email", "new@x.com")
	m.register.setValue("username", "newbie")
	m.register.setValue("password", "secret1")
	m.register.setValue("repeat", "secret1")

	m, cmd := update(t, m, keyEnter)
	require.NotNil(t, cmd)

	ts.EXPECT().
		Register(gomock.Any(), models.RegisterCredentials{Email: "new@x.com", Username: "newbie", Password: "secret1"}).
		Return(models.AuthResult{
			Message: "Email already registered",
			Errors:  models.FieldErrors{"email": {"Email already registered"}},
		})

	m, _ = update(t, m, cmd())

	assert.Equal(t, screenRegister, m.screen)
	assert.True(t, m.register.errors.Has("email"))
	assert.Equal(t, "Email already registered", m.register.message)
}

func TestPublicScreenRedirectsHomeWhenAuthenticated(t *testing.T) {
	m, _ := newTestModel(t, authenticated)

	m = m.navigate("/login")

	assert.Equal(t, screenProfile, m.screen)
	assert.Equal(t, "/profile", m.location)
}

func TestForcedRedirect_RemembersLocation(t *testing.T) {
	m, ts := newTestModel(t, authenticated)
	m = m.navigate(locationEdit)
	require.Equal(t, screenEdit, m.screen)

	ts.current = unauthenticated
	m, _ = update(t, m, redirectMsg{returnTo: locationEdit})

	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, locationEdit, m.returnTo)
	assert.Contains(t, m.View(), "Сессия завершена сервером")
}

func TestStateChangeToUnauthenticated_RedirectsFromProtectedScreen(t *testing.T) {
	m, _ := newTestModel(t, authenticated)
	m = m.navigate(locationEdit)

	m, _ = update(t, m, sessionChangedMsg{state: unauthenticated})

	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, locationEdit, m.returnTo)
}

func TestLogout_ForgetsReturnLocation(t *testing.T) {
	m, ts := newTestModel(t, authenticated)
	require.Equal(t, screenProfile, m.screen)

	m, cmd := update(t, m, keyRunes("l"))
	require.NotNil(t, cmd)

	ts.EXPECT().Logout(gomock.Any()).Do(func(context.Context) { ts.current = unauthenticated })
	m, _ = update(t, m, cmd())

	assert.Equal(t, screenLogin, m.screen)
	assert.Empty(t, m.returnTo)
}

func TestEdit_SendsOnlyChangedFields(t *testing.T) {
	m, ts := newTestModel(t, authenticated)
	m = m.navigate(locationEdit)

	m.edit.setValue("username", "renamed")

	m, cmd := update(t, m, keyEnter)
	require.NotNil(t, cmd)

	renamed := *testUser
	renamed.Username = "renamed"
	ts.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, upd models.UserUpdate) models.AuthResult {
			assert.Nil(t, upd.Email)
			assert.Nil(t, upd.Password)
			require.NotNil(t, upd.Username)
			assert.Equal(t, "renamed", *upd.Username)

			ts.current = models.SessionState{Status: models.SessionAuthenticated, User: &renamed}
			return models.Succeeded(nil, &renamed)
		})

	m, _ = update(t, m, cmd())

	assert.Equal(t, screenProfile, m.screen)
	assert.Equal(t, "Профиль сохранён", m.status)
	assert.Equal(t, "renamed", m.state.User.Username)
}

func TestEdit_NoChanges(t *testing.T) {
	m, _ := newTestModel(t, authenticated)
	m = m.navigate(locationEdit)

	m, cmd := update(t, m, keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "Нет изменений", m.edit.message)
}

func TestProfile_CopyUserID(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m, _ := newTestModel(t, authenticated)

	m, cmd := update(t, m, keyRunes("c"))
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())

	assert.Equal(t, "u-1", copied)
	assert.Equal(t, "Скопировано!", m.status)
}

func TestProfile_CopyFailureShowsError(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { writeClipboard = orig })

	m, _ := newTestModel(t, authenticated)

	m, cmd := update(t, m, keyRunes("c"))
	m, _ = update(t, m, cmd())

	assert.True(t, m.showError)
	assert.Contains(t, m.errorOverlay.message, "no clipboard")
}

func TestProfile_DeactivateAfterConfirmation(t *testing.T) {
	m, ts := newTestModel(t, authenticated)

	m, cmd := update(t, m, keyRunes("d"))
	assert.Nil(t, cmd)
	assert.True(t, m.showConfirm)

	m, cmd = update(t, m, keyRunes("y"))
	require.NotNil(t, cmd)
	assert.False(t, m.showConfirm)

	ts.EXPECT().Deactivate(gomock.Any()).DoAndReturn(func(context.Context) models.AuthResult {
		ts.current = unauthenticated
		return models.AuthResult{Success: true}
	})
	m, _ = update(t, m, cmd())

	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, "Учётная запись деактивирована", m.notice)
}

func TestProfile_DeactivateDeclined(t *testing.T) {
	m, _ := newTestModel(t, authenticated)

	m, _ = update(t, m, keyRunes("d"))
	m, cmd := update(t, m, keyRunes("n"))

	assert.Nil(t, cmd)
	assert.False(t, m.showConfirm)
	assert.Equal(t, screenProfile, m.screen)
}

func TestProfile_Refresh(t *testing.T) {
	m, ts := newTestModel(t, authenticated)

	m, cmd := update(t, m, keyRunes("r"))
	require.NotNil(t, cmd)

	ts.EXPECT().Refresh(gomock.Any()).Return(true)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "Профиль обновлён", m.status)
}

func TestBuildInfoOverlay(t *testing.T) {
	m, _ := newTestModel(t, authenticated)

	m, _ = update(t, m, keyRunes("v"))
	assert.Contains(t, m.View(), "ИНФОРМАЦИЯ О ПРОГРАММЕ")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showBuildInfo)
}

func TestWelcome_Navigation(t *testing.T) {
	m, _ := newTestModel(t, unauthenticated)
	m = m.navigate(locationWelcome)
	require.Equal(t, screenWelcome, m.screen)

	m, _ = update(t, m, keyRunes("j"))
	m, _ = update(t, m, keyEnter)

	assert.Equal(t, screenRegister, m.screen)
}

func TestProgramNavigator_SendsRedirect(t *testing.T) {
	var got tea.Msg
	nav := programNavigator{send: func(msg tea.Msg) { got = msg }}

	nav.RedirectToLogin("/profile")

	assert.Equal(t, redirectMsg{returnTo: "/profile"}, got)
}

func TestHumanizeResult(t *testing.T) {
	tests := []struct {
		name   string
		result models.AuthResult
		want   string
	}{
		{name: "plain message", result: models.Failed("Incorrect email or password"), want: "Incorrect email or password"},
		{name: "network", result: models.Failed("login request: dial tcp 127.0.0.1:8000: connection refused"), want: serverUnavailableMessage},
		{name: "timeout", result: models.Failed("context deadline exceeded"), want: serverUnavailableMessage},
		{name: "validation", result: models.Invalid(models.FieldErrors{"email": {"x"}}), want: "Проверьте правильность заполнения полей"},
		{name: "field errors only", result: models.AuthResult{Errors: models.FieldErrors{"email": {"x"}}}, want: "Проверьте правильность заполнения полей"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeResult(tt.result))
		})
	}
}
