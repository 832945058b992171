// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr maps pgx and PostgreSQL errors onto [apperr.AppError] values.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/stager/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes that have a client-facing meaning.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidTextRepr     = "22P02"
)

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap classifies a database error. The action names the failed operation and
// ends up in the server-side cause only.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations the client can act on
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case codeForeignKeyViolation, codeCheckViolation, codeInvalidTextRepr:
			unprocessable := apperr.Unprocessable("Request references invalid data")
			unprocessable.Cause = fmt.Errorf("%s: %w", action, err)
			return unprocessable
		}
	}

	// 3. Everything else is a server error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// NotFound returns a 404 naming the resource when err means "no rows", and
// [Wrap] otherwise.
func NotFound(err error, resource, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return Wrap(err, action)
}
