// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stager/internal/platform/migration"
)

/*
TestToPgx5DSN verifies scheme rewriting.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"postgres://u:p@db:5432/stager?sslmode=disable", "pgx5://u:p@db:5432/stager?sslmode=disable"},
		{"postgresql://db/stager", "pgx5://db/stager"},
		{"pgx5://db/stager", "pgx5://db/stager"},
		{"host=db dbname=stager", "host=db dbname=stager"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.input))
		})
	}
}
