// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/store"
	"github.com/MKhiriev/go-auth-session/internal/utils"
	"github.com/MKhiriev/go-auth-session/models"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	mePath       = "/auth/me"
)

type httpAuthClient struct {
	client    *utils.HTTPClient
	store     store.TokenStore
	validator *credentialsValidator

	logger *logger.Logger
}

type options struct {
	transport http.RoundTripper
	pipeline  *Pipeline
}

// Option customises [NewHTTPAuthClient].
type Option func(*options)

// WithTransport replaces the HTTP transport, e.g. with a fake in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithPipeline replaces [DefaultPipeline].
func WithPipeline(p *Pipeline) Option {
	return func(o *options) {
		o.pipeline = p
	}
}

// NewHTTPAuthClient constructs an HTTP/REST implementation of [AuthClient].
// It normalises and validates the base URL from cfg.HTTPAddress, applies the
// request timeout and installs the interceptor pipeline (by default
// [DefaultPipeline] over tokenStore and signal).
//
// Returns [ErrInvalidBaseURL] if cfg.HTTPAddress is empty or cannot be
// parsed as a URL with scheme and host.
func NewHTTPAuthClient(cfg config.ClientAdapter, tokenStore store.TokenStore, signal *AuthFailureSignal, log *logger.Logger, opts ...Option) (AuthClient, error) {
	baseURL := utils.NormalizeBaseURL(cfg.HTTPAddress)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q must include host and scheme", ErrInvalidBaseURL, cfg.HTTPAddress)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.pipeline == nil {
		o.pipeline = DefaultPipeline(tokenStore, signal, log)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)
	client.SetLogger(restyLogger{log: log})
	if o.transport != nil {
		client.SetTransport(o.transport)
	}
	o.pipeline.Install(client.Client)

	return &httpAuthClient{
		client:    client,
		store:     tokenStore,
		validator: newCredentialsValidator(),
		logger:    log,
	}, nil
}

// Login implements [AuthClient]. Two sequential calls: POST /auth/login
// (anonymous) and GET /auth/me with the issued token. The profile call starts
// only after the token call succeeded.
func (h *httpAuthClient) Login(ctx context.Context, credentials models.LoginCredentials) models.AuthResult {
	if errs := h.validator.validate(credentials); errs != nil {
		return models.Invalid(errs)
	}

	var token models.Token
	resp, err := h.request(ctx, utils.AuthModeAnonymous).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials).
		SetResult(&token).
		Post(loginPath)
	if err = responseError("login", resp, err); err != nil {
		h.logger.Debug().Err(err).Str("func", "httpAuthClient.Login").Msg("login rejected")
		return failureResult(err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		h.logger.Error().Err(ErrEmptyAccessToken).Str("func", "httpAuthClient.Login").Msg("unusable login response")
		return models.Failed(GenericFailureMessage)
	}
	if token.TokenType == "" {
		token.TokenType = "bearer"
	}

	user, err := h.fetchUser(ctx, token.AccessToken)
	if err != nil {
		h.logger.Err(err).Str("func", "httpAuthClient.Login").Msg("profile fetch after login failed")
		return failureResult(err)
	}

	return models.Succeeded(&token, user)
}

// Register implements [AuthClient]. A successful registration is followed by
// [httpAuthClient.Login] with the same e-mail and password.
func (h *httpAuthClient) Register(ctx context.Context, credentials models.RegisterCredentials) models.AuthResult {
	if errs := h.validator.validate(credentials); errs != nil {
		return models.Invalid(errs)
	}

	resp, err := h.request(ctx, utils.AuthModeAnonymous).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials).
		Post(registerPath)
	if err = responseError("register", resp, err); err != nil {
		h.logger.Debug().Err(err).Str("func", "httpAuthClient.Register").Msg("registration rejected")
		return failureResult(withDetailFieldErrors(err))
	}

	return h.Login(ctx, credentials.Login())
}

// CurrentUser implements [AuthClient].
func (h *httpAuthClient) CurrentUser(ctx context.Context, token string) *models.User {
	if strings.TrimSpace(token) == "" {
		return nil
	}

	user, err := h.fetchUser(ctx, token)
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpAuthClient.CurrentUser").Msg("token probe failed")
		return nil
	}

	return user
}

// Profile implements [AuthClient].
func (h *httpAuthClient) Profile(ctx context.Context) models.AuthResult {
	var user models.User
	resp, err := h.request(ctx, utils.AuthModeSession).
		SetResult(&user).
		Get(mePath)
	if err = responseError("profile", resp, err); err != nil {
		return failureResult(err)
	}

	return models.Succeeded(nil, &user)
}

// UpdateUser implements [AuthClient]. Only the set fields of update are sent.
func (h *httpAuthClient) UpdateUser(ctx context.Context, update models.UserUpdate) models.AuthResult {
	if update.IsEmpty() {
		return models.Failed("nothing to update")
	}
	if errs := h.validator.validate(update); errs != nil {
		return models.Invalid(errs)
	}

	var user models.User
	resp, err := h.request(ctx, utils.AuthModeSession).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		SetResult(&user).
		Put(mePath)
	if err = responseError("update user", resp, err); err != nil {
		h.logger.Debug().Err(err).Str("func", "httpAuthClient.UpdateUser").Msg("update rejected")
		return failureResult(withDetailFieldErrors(err))
	}

	return models.Succeeded(nil, &user)
}

// Deactivate implements [AuthClient].
func (h *httpAuthClient) Deactivate(ctx context.Context) models.AuthResult {
	resp, err := h.request(ctx, utils.AuthModeSession).Delete(mePath)
	if err = responseError("deactivate", resp, err); err != nil {
		return failureResult(err)
	}

	// a session started while the request was in flight keeps its token
	ctx = context.WithoutCancel(ctx)
	if sentWithCurrentToken(ctx, h.store, resp.Request.Token) {
		if err = h.store.Clear(ctx); err != nil {
			h.logger.Err(err).Str("func", "httpAuthClient.Deactivate").Msg("failed to clear token store")
		}
	}

	return models.AuthResult{Success: true}
}

// Logout implements [AuthClient].
func (h *httpAuthClient) Logout(ctx context.Context) {
	if err := h.store.Clear(context.WithoutCancel(ctx)); err != nil {
		h.logger.Err(err).Str("func", "httpAuthClient.Logout").Msg("failed to clear token store")
	}
}

// fetchUser calls GET /auth/me with an explicit token. The stored token and
// the auth-failure handling are bypassed.
func (h *httpAuthClient) fetchUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	resp, err := h.request(ctx, utils.AuthModeExplicit).
		SetAuthToken(token).
		SetResult(&user).
		Get(mePath)
	if err = responseError("current user", resp, err); err != nil {
		return nil, err
	}

	return &user, nil
}

func (h *httpAuthClient) request(ctx context.Context, mode utils.AuthMode) *resty.Request {
	return h.client.R().SetContext(utils.WithAuthMode(ctx, mode))
}

// responseError folds the transport error and the HTTP status into one error.
// A session request aborted by the auth-failure interceptor yields a bare
// [ErrUnauthorized].
func responseError(op string, resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, ErrUnauthorized) ||
			(resp != nil && resp.StatusCode() == http.StatusUnauthorized) {
			return ErrUnauthorized
		}
		return fmt.Errorf("%s request: %w", op, err)
	}

	return mapHTTPError(resp)
}

// withDetailFieldErrors attributes a plain 4xx explanation such as
// "Email already registered" to the field it names, so that duplicates show
// up next to the offending input.
func withDetailFieldErrors(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || len(apiErr.Errors) > 0 || apiErr.Message == "" {
		return err
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		return err
	}

	lower := strings.ToLower(apiErr.Message)
	for _, field := range []string{"email", "username"} {
		if strings.Contains(lower, field) {
			apiErr.Errors = models.FieldErrors{field: {apiErr.Message}}
			break
		}
	}

	return apiErr
}
