// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/store"
	"github.com/MKhiriev/go-auth-session/internal/utils"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// RequestInterceptor transforms an outgoing request. Returning an error
// aborts the request.
type RequestInterceptor = resty.RequestMiddleware

// ResponseInterceptor inspects an incoming response. Returning an error
// aborts normal response handling; the error is returned to the caller.
type ResponseInterceptor = resty.ResponseMiddleware

// Pipeline is the ordered chain of interceptors installed on the resty
// client of an [AuthClient].
type Pipeline struct {
	request  []RequestInterceptor
	response []ResponseInterceptor
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// DefaultPipeline is the chain used by [NewHTTPAuthClient]:
//
//	request:  RequestID -> BearerToken -> RequestLogging
//	response: ResponseLogging -> AuthFailure
func DefaultPipeline(tokenStore store.TokenStore, signal *AuthFailureSignal, log *logger.Logger) *Pipeline {
	return NewPipeline().
		Use(
			RequestID(utils.NewUUIDGenerator()),
			BearerToken(tokenStore, log),
			RequestLogging(log),
		).
		UseResponse(
			ResponseLogging(log),
			AuthFailure(tokenStore, signal, log),
		)
}

// Use appends request interceptors.
func (p *Pipeline) Use(interceptors ...RequestInterceptor) *Pipeline {
	p.request = append(p.request, interceptors...)
	return p
}

// UseResponse appends response interceptors.
func (p *Pipeline) UseResponse(interceptors ...ResponseInterceptor) *Pipeline {
	p.response = append(p.response, interceptors...)
	return p
}

// Install registers the chain on client, in order.
func (p *Pipeline) Install(client *resty.Client) {
	for _, interceptor := range p.request {
		client.OnBeforeRequest(interceptor)
	}
	for _, interceptor := range p.response {
		client.OnAfterResponse(interceptor)
	}
}

type idGenerator interface {
	Generate() string
}

// RequestID sets X-Request-ID unless the caller already did.
func RequestID(gen idGenerator) RequestInterceptor {
	return func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) != "" {
			return nil
		}

		requestID, ok := utils.GetRequestIDFromContext(r.Context())
		if !ok {
			requestID = gen.Generate()
		}
		r.SetHeader(RequestIDHeader, requestID)
		return nil
	}
}

// BearerToken attaches the stored token to session requests. Anonymous and
// explicit-token requests are left alone, as are session requests made
// while the store is empty.
func BearerToken(tokenStore store.TokenStore, log *logger.Logger) RequestInterceptor {
	return func(_ *resty.Client, r *resty.Request) error {
		if utils.GetAuthModeFromContext(r.Context()) != utils.AuthModeSession {
			return nil
		}

		token, err := tokenStore.Get(r.Context())
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil
		}
		if err != nil {
			// the server answers 401 to the anonymous request, which ends the session
			log.Warn().Err(err).Str("func", "BearerToken").Msg("stored token unavailable, sending request without it")
			return nil
		}

		r.SetAuthToken(token)
		return nil
	}
}

// RequestLogging logs method, path and mode. Headers are never logged.
func RequestLogging(log *logger.Logger) RequestInterceptor {
	return func(_ *resty.Client, r *resty.Request) error {
		log.Debug().
			Str("method", r.Method).
			Str("url", r.URL).
			Str("mode", utils.GetAuthModeFromContext(r.Context()).String()).
			Str("request_id", r.Header.Get(RequestIDHeader)).
			Msg("outgoing api request")
		return nil
	}
}

// ResponseLogging logs status and latency of every answer.
func ResponseLogging(log *logger.Logger) ResponseInterceptor {
	return func(_ *resty.Client, resp *resty.Response) error {
		event := log.Debug()
		if resp.StatusCode() >= http.StatusInternalServerError {
			event = log.Warn()
		}

		event.
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("latency", resp.Time()).
			Str("request_id", resp.Request.Header.Get(RequestIDHeader)).
			Msg("api response")
		return nil
	}
}

// AuthFailure ends the session when a session request is answered with 401:
// it clears the token store, raises signal and aborts normal response
// handling with [ErrUnauthorized]. A 401 to an anonymous or explicit-token
// request (wrong password, stale token probe) is an ordinary failure.
//
// Only the session the request was sent under is ended. A late 401 to a
// request that carried a token which is no longer stored still fails the
// request but leaves the store and the signal alone.
func AuthFailure(tokenStore store.TokenStore, signal *AuthFailureSignal, log *logger.Logger) ResponseInterceptor {
	return func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() != http.StatusUnauthorized {
			return nil
		}

		ctx := resp.Request.Context()
		if utils.GetAuthModeFromContext(ctx) != utils.AuthModeSession {
			return nil
		}

		ctx = context.WithoutCancel(ctx)
		if !sentWithCurrentToken(ctx, tokenStore, resp.Request.Token) {
			log.Debug().Str("func", "AuthFailure").Str("url", resp.Request.URL).Msg("401 for an ended session, ignored")
			return ErrUnauthorized
		}

		if err := tokenStore.Clear(ctx); err != nil {
			log.Err(err).Str("func", "AuthFailure").Msg("failed to clear token store after 401")
		}

		if signal.Raise(ctx) {
			log.Info().Str("url", resp.Request.URL).Msg("session rejected by server, signed out")
		}

		return ErrUnauthorized
	}
}

// sentWithCurrentToken reports whether sent is the token held by tokenStore.
// An unreadable store counts as current: the request went out without a
// token and the session cannot be trusted anymore.
func sentWithCurrentToken(ctx context.Context, tokenStore store.TokenStore, sent string) bool {
	current, err := tokenStore.Get(ctx)
	switch {
	case err == nil:
		return sent != "" && current == sent
	case errors.Is(err, store.ErrTokenNotFound):
		return false
	default:
		return true
	}
}
