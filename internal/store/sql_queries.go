// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	sessionTokensTable = "session_tokens"

	// bearerKey is the only row of session_tokens.
	bearerKey = "bearer"
)

// sqlite uses "?" placeholders
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildUpsertTokenQuery writes token into the bearer row, replacing any
// previous value.
func buildUpsertTokenQuery(token string, at time.Time) (string, []any, error) {
	return sqlite.
		Insert(sessionTokensTable).
		Columns("key", "token", "updated_at").
		Values(bearerKey, token, at.UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at").
		ToSql()
}

func buildSelectTokenQuery() (string, []any, error) {
	return sqlite.
		Select("token").
		From(sessionTokensTable).
		Where(sq.Eq{"key": bearerKey}).
		Limit(1).
		ToSql()
}

func buildDeleteTokenQuery() (string, []any, error) {
	return sqlite.
		Delete(sessionTokensTable).
		Where(sq.Eq{"key": bearerKey}).
		ToSql()
}
