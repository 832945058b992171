// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/dberr"
)

/*
TestWrap verifies SQLSTATE classification.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", pgx.ErrNoRows, http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"foreign_key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), http.StatusUnprocessableEntity},
		{"bad_uuid", &pgconn.PgError{Code: "22P02"}, http.StatusUnprocessableEntity},
		{"other", errors.New("conn closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperr.As(dberr.Wrap(tt.err, "test_action"))
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestNotFound verifies the resource name reaches the message.
*/
func TestNotFound(t *testing.T) {
	appErr := apperr.As(dberr.NotFound(pgx.ErrNoRows, "Dataset", "get_dataset"))
	require.NotNil(t, appErr)
	assert.Equal(t, "Dataset not found", appErr.Message)

	appErr = apperr.As(dberr.NotFound(errors.New("boom"), "Dataset", "get_dataset"))
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}
