// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entry_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/core/entry"
	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
)

// keyspaceHook answers GET, SET and DEL from a map so the client never dials.
type keyspaceHook struct {
	mu     sync.Mutex
	values map[string]string
	args   map[string][]any
}

func (hook *keyspaceHook) DialHook(redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, fmt.Errorf("keyspaceHook: dialing is disabled")
	}
}

func (hook *keyspaceHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		hook.mu.Lock()
		defer hook.mu.Unlock()

		args := cmd.Args()
		key := fmt.Sprint(args[1])
		hook.args[key] = args

		switch cmd := cmd.(type) {
		case *redis.StringCmd:
			value, ok := hook.values[key]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.SetVal(value)
		case *redis.StatusCmd:
			hook.values[key] = fmt.Sprintf("%s", args[2])
			cmd.SetVal("OK")
		case *redis.IntCmd:
			_, existed := hook.values[key]
			delete(hook.values, key)
			if existed {
				cmd.SetVal(1)
			}
		}
		return nil
	}
}

func (hook *keyspaceHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

/*
TestRedisSessionStore verifies keys, TTLs and the missing-session mapping.
*/
func TestRedisSessionStore(t *testing.T) {
	hook := &keyspaceHook{values: make(map[string]string), args: make(map[string][]any)}
	client := redis.NewClient(&redis.Options{Addr: "redis.invalid:6379"})
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })

	store := entry.NewRedisSessionStore(client)
	ctx := context.Background()

	session := &entry.Session{
		ID:      "0190a6e0-0000-7000-8000-00000000abcd",
		OwnerID: ownerID,
		RuleSet: dataentry.DefaultRuleSet,
		State:   dataentry.NewState(nil, []string{"C4R"}, nil, dataentry.DefaultRules()),
	}

	// 1. Save under the prefixed key with a TTL
	require.NoError(t, store.Save(ctx, session, 2*time.Hour))
	key := "entry:session:" + session.ID
	require.Contains(t, hook.values, key)
	assert.Contains(t, hook.args[key], "ex")

	// 2. Load
	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.OwnerID, loaded.OwnerID)
	assert.Equal(t, session.Rows, loaded.Rows)
	assert.Equal(t, session.Columns, loaded.Columns)

	// 3. Delete, then miss
	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
