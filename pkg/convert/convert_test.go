// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/pkg/convert"
)

/*
TestToIntD falls back to the default on empty or malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 7, convert.ToIntD("7", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("seven", 1))
}

/*
TestToBoolPtr treats empty or malformed input as "no filter".
*/
func TestToBoolPtr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *bool
	}{
		{"true", "true", new(bool)},
		{"one", "1", new(bool)},
		{"false", "false", new(bool)},
		{"empty", "", nil},
		{"garbage", "maybe", nil},
	}
	*tests[0].want = true
	*tests[1].want = true

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convert.ToBoolPtr(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
