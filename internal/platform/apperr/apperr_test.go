// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/platform/apperr"
)

/*
TestConstructors verifies each constructor maps to its status and code.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Dataset"), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperr.Unauthorized("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperr.Forbidden("x"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", apperr.Conflict("x"), http.StatusConflict, "CONFLICT"},
		{"validation", apperr.ValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"too_large", apperr.PayloadTooLarge(1024), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Dataset not found", apperr.NotFound("Dataset").Error())
}

/*
TestAs verifies extraction through wrapped chains and cause unwrapping.
*/
func TestAs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("store: %w", apperr.Internal(cause))

	appErr := apperr.As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, apperr.IsAppError(wrapped))

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.IsAppError(cause))
}

/*
TestHelpers verifies cell paths and code matching.
*/
func TestHelpers(t *testing.T) {
	assert.Equal(t, "rows[2].dataset_type", apperr.CellField(2, "dataset_type"))

	wrapped := fmt.Errorf("load: %w", apperr.NotFound("Entry session"))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeForbidden))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeNotFound))
}
