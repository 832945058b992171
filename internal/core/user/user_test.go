// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/core/user"
	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/ctxutil"
	"github.com/taibuivan/stager/internal/platform/sec"
)

// # Fakes

type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*user.User)}
}

func (repository *memoryRepository) List(_ context.Context, filter user.Filter, limit, offset int) ([]*user.User, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*user.User
	for _, u := range repository.users {
		if filter.Query != "" && !strings.Contains(u.Username, filter.Query) {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		copied := *u
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	if offset >= total {
		return []*user.User{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	u, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, u *user.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	repository.users[u.ID] = &copied
	return nil
}

func (repository *memoryRepository) SetActive(_ context.Context, id string, active bool) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	u, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	u.IsActive = active
	return nil
}

type staticMemberships map[string][]string

func (memberships staticMemberships) MemberCodes(_ context.Context, userID string) ([]string, error) {
	return memberships[userID], nil
}

func newService(memberships staticMemberships) (*user.Service, *memoryRepository) {
	repository := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return user.NewService(repository, memberships, logger), repository
}

// # Service

/*
TestService_CreateUser covers validation, normalisation and conflicts.
*/
func TestService_CreateUser(t *testing.T) {
	service, _ := newService(nil)
	ctx := context.Background()

	created, err := service.CreateUser(ctx, user.CreateInput{Username: " jdoe ", Email: "JDoe@Example.org"})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", created.Username)
	assert.Equal(t, "jdoe@example.org", created.Email)
	assert.True(t, created.IsActive)
	assert.Len(t, created.ID, 36)

	_, err = service.CreateUser(ctx, user.CreateInput{Username: "jdoe", Email: "other@example.org"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	tests := []struct {
		name  string
		input user.CreateInput
		field string
	}{
		{"missing_username", user.CreateInput{Email: "a@b.org"}, user.FieldUsername},
		{"spaces_in_username", user.CreateInput{Username: "j doe", Email: "a@b.org"}, user.FieldUsername},
		{"bad_email", user.CreateInput{Username: "ok", Email: "not-an-email"}, user.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(ctx, tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

			var fields []string
			for _, detail := range appErr.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

/*
TestService_Lifecycle covers group resolution, deactivation and the
active-caller check.
*/
func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	memberships := staticMemberships{}
	service, _ := newService(memberships)

	admin, err := service.CreateUser(ctx, user.CreateInput{Username: "admin", Email: "admin@example.org", IsAdmin: true})
	require.NoError(t, err)
	member, err := service.CreateUser(ctx, user.CreateInput{Username: "member", Email: "member@example.org"})
	require.NoError(t, err)
	memberships[member.ID] = []string{"C4R", "CHEO"}

	// 1. Detail view carries group codes
	got, err := service.GetUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4R", "CHEO"}, got.Groups)

	// 2. Self deactivation is refused
	err = service.DeactivateUser(ctx, admin.ID, admin.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.As(err).HTTPStatus)

	// 3. Deactivated callers are forbidden
	require.NoError(t, service.DeactivateUser(ctx, member.ID, admin.ID))
	_, err = service.ActiveUser(ctx, member.ID)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// 4. Unknown callers are forbidden rather than not found
	_, err = service.ActiveUser(ctx, "0190a6e0-0000-7000-8000-000000000000")
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// 5. Reactivation restores access
	require.NoError(t, service.ActivateUser(ctx, member.ID))
	_, err = service.ActiveUser(ctx, member.ID)
	assert.NoError(t, err)
}

// # HTTP

func withClaims(request *http.Request, id string, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{UserID: id, Username: id, Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

/*
TestHandler_Routes verifies admin gating and response envelopes.
*/
func TestHandler_Routes(t *testing.T) {
	service, _ := newService(nil)
	router := user.NewHandler(service).Routes()

	// 1. Non-admins cannot create accounts
	body := `{"username":"jdoe","email":"jdoe@example.org"}`
	request := withClaims(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "u-1", sec.RoleUser)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// 2. Admins can
	request = withClaims(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "admin-1", sec.RoleAdmin)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data user.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "jdoe", created.Data.Username)

	// 3. The created user sees themselves through /me
	request = withClaims(httptest.NewRequest(http.MethodGet, "/me", nil), created.Data.ID, sec.RoleUser)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 4. Malformed ids are rejected before the store
	request = withClaims(httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil), "admin-1", sec.RoleAdmin)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// 5. Listing paginates
	request = withClaims(httptest.NewRequest(http.MethodGet, "/?limit=10", nil), "admin-1", sec.RoleAdmin)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":1`)
}
