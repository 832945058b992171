// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/respond"
	"github.com/taibuivan/stager/pkg/pagination"
)

/*
TestError verifies AppErrors keep their status and unknown errors become 500s.
*/
func TestError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("app_error", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "rows[0].sex", Message: "Must be one of: Male, Female"}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var body respond.ErrorEnvelope
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "rows[0].sex", body.Details[0].Field)
	})

	t.Run("plain_error", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}

/*
TestEnvelopes verifies the success shapes.
*/
func TestEnvelopes(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OKWithWarning(recorder, map[string]int{"rows": 3}, "INVALID_INDEX", "Row 7 does not exist")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t,
		`{"data":{"rows":3},"warning":{"code":"INVALID_INDEX","message":"Row 7 does not exist"}}`,
		recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(1, 20, 41))
	assert.JSONEq(t,
		`{"data":["a"],"meta":{"page":1,"limit":20,"total":41,"total_pages":3,"has_next":true}}`,
		recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "x"})
	assert.Equal(t, http.StatusCreated, recorder.Code)
}
