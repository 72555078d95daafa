// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package apitest

import (
	"context"
	"net/http"
)

func contextWithUserID(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), userIDCtxKey{}, userID)
}

func userIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(userIDCtxKey{}).(string)
	return id
}
