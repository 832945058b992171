// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/middleware"
	requestutil "github.com/taibuivan/stager/internal/platform/request"
	"github.com/taibuivan/stager/internal/platform/respond"
	"github.com/taibuivan/stager/pkg/convert"
	"github.com/taibuivan/stager/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for accounts.
type Handler struct {
	service *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the account endpoints. The caller mounts them behind
// [middleware.RequireAuth]; everything except /me is admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.me)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Get("/", handler.listUsers)
		admin.Post("/", handler.createUser)
		admin.Get("/{id}", handler.getUser)
		admin.Post("/{id}/deactivate", handler.deactivateUser)
		admin.Post("/{id}/activate", handler.activateUser)
	})

	return router
}

/*
GET /api/v1/users/me.

Description: Returns the caller's account and group codes.

Response:
  - 200: User
  - 403: Account unknown or deactivated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.ActiveUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users.

Request:
  - q: string (username or email fragment)
  - active: bool
  - page, limit: int

Response:
  - 200: []User: Paginated list
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    queryParams.Get("q"),
		IsActive: convert.ToBoolPtr(queryParams.Get("active")),
	}

	users, total, err := handler.service.ListUsers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, paginationParams.Meta(total))
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: User
  - 400: Malformed id
  - 404: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
POST /api/v1/users.

Request (Body):
  - CreateInput JSON

Response:
  - 201: User
  - 400: Validation failure
  - 409: Username or email taken
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.CreateUser(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/v1/users/{id}/deactivate.

Response:
  - 204: Deactivated
  - 404: User not found
  - 422: Self-deactivation
*/
func (handler *Handler) deactivateUser(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)
	if claims == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeactivateUser(request.Context(), id, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/users/{id}/activate.
func (handler *Handler) activateUser(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ActivateUser(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
