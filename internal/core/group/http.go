// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stager/internal/platform/middleware"
	requestutil "github.com/taibuivan/stager/internal/platform/request"
	"github.com/taibuivan/stager/internal/platform/respond"
	"github.com/taibuivan/stager/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for permission groups.
type Handler struct {
	service *Service
}

// NewHandler constructs a new group [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the group endpoints. The caller mounts them behind
// [middleware.RequireAuth]; mutations are admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Discovery
	router.Get("/", handler.listGroups)
	router.Get("/mine", handler.myGroups)
	router.Get("/{identifier}", handler.getGroup)
	router.Get("/{id}/members", handler.listMembers)

	// ## Administration
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/", handler.createGroup)
		admin.Post("/{id}/members", handler.addMember)
		admin.Delete("/{id}/members/{userID}", handler.removeMember)
	})

	return router
}

/*
GET /api/v1/groups.

Request:
  - q: string (code or name fragment)
  - page, limit: int

Response:
  - 200: []Group: Paginated list
*/
func (handler *Handler) listGroups(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{Query: request.URL.Query().Get("q")}

	groups, total, err := handler.service.ListGroups(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, groups, paginationParams.Meta(total))
}

// GET /api/v1/groups/mine.
func (handler *Handler) myGroups(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.service.MyGroups(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, groups)
}

/*
GET /api/v1/groups/{identifier}.

Request:
  - identifier: string (UUID or code)

Response:
  - 200: Group
  - 404: Group not found
*/
func (handler *Handler) getGroup(writer http.ResponseWriter, request *http.Request) {
	group, err := handler.service.GetGroup(request.Context(), requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, group)
}

/*
POST /api/v1/groups.

Request (Body):
  - CreateInput JSON

Response:
  - 201: Group
  - 400: Validation failure
  - 409: Code already taken
*/
func (handler *Handler) createGroup(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.service.CreateGroup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, group)
}

// GET /api/v1/groups/{id}/members.
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	groupID, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	members, err := handler.service.ListMembers(request.Context(), groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}

/*
POST /api/v1/groups/{id}/members.

Request (Body):
  - user_id: string (UUID)

Response:
  - 204: Added (or already a member)
  - 404: Group or user not found
*/
func (handler *Handler) addMember(writer http.ResponseWriter, request *http.Request) {
	groupID, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input MemberInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddMember(request.Context(), groupID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// DELETE /api/v1/groups/{id}/members/{userID}.
func (handler *Handler) removeMember(writer http.ResponseWriter, request *http.Request) {
	groupID, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	userID, err := requestutil.UUIDParam(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveMember(request.Context(), groupID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
