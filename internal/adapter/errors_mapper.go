// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-auth-session/models"
)

// APIError is a non-2xx answer. It unwraps to one of the sentinel errors.
type APIError struct {
	StatusCode int
	// Message is the server's explanation ("detail" or "message"), if any.
	Message string
	// Errors holds field-level errors, if the server sent them.
	Errors models.FieldErrors

	sentinel error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.sentinel, e.Message)
	}
	return e.sentinel.Error()
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	apiErr.Message, apiErr.Errors = decodeErrorBody(resp.Body())

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		apiErr.sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusForbidden:
		apiErr.sentinel = ErrForbidden
	case http.StatusNotFound:
		apiErr.sentinel = ErrNotFound
	case http.StatusConflict:
		apiErr.sentinel = ErrConflict
	case http.StatusUnprocessableEntity:
		apiErr.sentinel = ErrUnprocessable
	case http.StatusInternalServerError:
		apiErr.sentinel = ErrInternalServerError
	default:
		apiErr.sentinel = fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	return apiErr
}

// errorBody covers the error shapes the API produces:
//
//	{"errors": {"email": ["already taken"]}}
//	{"detail": [{"loc": ["body", "email"], "msg": "value is not a valid email"}]}
//	{"detail": "Incorrect email or password"}
//	{"message": "..."}
type errorBody struct {
	Errors  map[string][]string `json:"errors"`
	Detail  json.RawMessage     `json:"detail"`
	Message string              `json:"message"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func decodeErrorBody(body []byte) (string, models.FieldErrors) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return "", nil
	}

	var fieldErrors models.FieldErrors
	if len(eb.Errors) > 0 {
		fieldErrors = make(models.FieldErrors, len(eb.Errors))
		for field, msgs := range eb.Errors {
			for _, msg := range msgs {
				fieldErrors.Add(field, msg)
			}
		}
	}

	message := eb.Message
	if len(eb.Detail) > 0 {
		var detail string
		var issues []validationIssue

		switch {
		case json.Unmarshal(eb.Detail, &detail) == nil:
			message = detail
		case json.Unmarshal(eb.Detail, &issues) == nil:
			for _, issue := range issues {
				if fieldErrors == nil {
					fieldErrors = make(models.FieldErrors)
				}
				fieldErrors.Add(issueField(issue.Loc), issue.Msg)
			}
		}
	}

	return strings.TrimSpace(message), fieldErrors
}

// issueField returns the last string element of loc ("body", "email" ->
// "email"). Issues without a named location are reported under "body".
func issueField(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" {
			return s
		}
	}
	return "body"
}

// failureResult converts any error of an AuthClient call into a failed
// [models.AuthResult]. Field errors and 4xx explanations pass through;
// everything else becomes [GenericFailureMessage].
func failureResult(err error) models.AuthResult {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// a bare ErrUnauthorized comes from the auth-failure interceptor
		if errors.Is(err, ErrUnauthorized) {
			return models.Failed(SessionExpiredMessage)
		}
		return models.Failed(GenericFailureMessage)
	}

	if len(apiErr.Errors) > 0 {
		result := models.Invalid(apiErr.Errors)
		if apiErr.Message != "" {
			result.Message = apiErr.Message
		}
		return result
	}

	if apiErr.Message != "" && apiErr.StatusCode < http.StatusInternalServerError {
		return models.Failed(apiErr.Message)
	}

	return models.Failed(GenericFailureMessage)
}
