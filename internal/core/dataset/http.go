// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataset

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/constants"
	requestutil "github.com/taibuivan/stager/internal/platform/request"
	"github.com/taibuivan/stager/internal/platform/respond"
	"github.com/taibuivan/stager/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for datasets and participants.
type Handler struct {
	service *Service
}

// NewHandler constructs a new dataset [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the dataset endpoints. The caller mounts them behind
// [middleware.RequireAuth].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/bulk", handler.bulkCreate)
	router.Get("/", handler.listDatasets)
	router.Get("/{id}", handler.getDataset)

	return router
}

// ParticipantRoutes returns the participant endpoints.
func (handler *Handler) ParticipantRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listParticipants)
	router.Get("/{id}", handler.getParticipant)

	return router
}

/*
POST /api/v1/datasets/bulk.

Description: Persists a batch of flattened data entry rows.

Request:
  - groups: string (comma separated group codes, query)
  - Body: []Row JSON

Response:
  - 201: BulkResult
  - 400: Row validation failure or unknown group
  - 403: Sharing with a group the caller is not in
  - 409: A linked file already belongs to another dataset
*/
func (handler *Handler) bulkCreate(writer http.ResponseWriter, request *http.Request) {
	var rows []dataentry.Row
	if err := requestutil.DecodeJSON(writer, request, &rows); err != nil {
		respond.Error(writer, request, err)
		return
	}

	groups := requestutil.ListQuery(request, constants.QueryGroups)

	ids, err := handler.service.BulkCreate(request.Context(), rows, groups)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, BulkResult{IDs: ids, Count: len(ids)})
}

/*
GET /api/v1/datasets.

Request:
  - type: string (dataset type code)
  - group: string (group code)
  - participant_id: string (UUID)
  - page, limit: int

Response:
  - 200: []Dataset: Paginated list
*/
func (handler *Handler) listDatasets(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		DatasetType:   queryParams.Get("type"),
		GroupCode:     queryParams.Get("group"),
		ParticipantID: queryParams.Get("participant_id"),
	}

	datasets, total, err := handler.service.ListDatasets(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, datasets, paginationParams.Meta(total))
}

// GET /api/v1/datasets/{id}.
func (handler *Handler) getDataset(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dataset, err := handler.service.GetDataset(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dataset)
}

/*
GET /api/v1/participants.

Request:
  - q: string (codename fragment)
  - family: string (family codename)
  - page, limit: int
*/
func (handler *Handler) listParticipants(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := ParticipantFilter{
		Query:          queryParams.Get("q"),
		FamilyCodename: queryParams.Get("family"),
	}

	participants, total, err := handler.service.ListParticipants(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, participants, paginationParams.Meta(total))
}

// GET /api/v1/participants/{id}.
func (handler *Handler) getParticipant(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	participant, err := handler.service.GetParticipant(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, participant)
}
