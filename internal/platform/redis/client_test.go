// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/platform/redis"
)

/*
TestParseOptions verifies URL parsing keeps the database index and applies
pool tuning.
*/
func TestParseOptions(t *testing.T) {
	options, err := redis.ParseOptions("redis://:secret@cache:6380/3")
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, "secret", options.Password)
	assert.Equal(t, 10, options.PoolSize)

	_, err = redis.ParseOptions("http://cache")
	assert.Error(t, err)
}
