// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-auth-session/models"
)

// credentialsValidator checks request bodies before they leave the client,
// reporting problems under the JSON field names the server uses.
type credentialsValidator struct {
	v *validator.Validate
}

func newCredentialsValidator() *credentialsValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &credentialsValidator{v: v}
}

// validate returns nil when s is valid.
func (c *credentialsValidator) validate(s any) models.FieldErrors {
	err := c.v.Struct(s)
	if err == nil {
		return nil
	}

	errs := make(models.FieldErrors)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			errs.Add(fe.Field(), fieldError(fe))
		}
		return errs
	}

	errs.Add("body", err.Error())
	return errs
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
