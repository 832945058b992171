// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entry

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
	requestutil "github.com/taibuivan/stager/internal/platform/request"
	"github.com/taibuivan/stager/internal/platform/respond"
)

// Body limits. Actions are tiny; CSV imports carry a whole sheet.
const (
	maxActionBody = 64 << 10
	maxCSVBody    = 8 << 20
)

// # Handler Implementation

// Handler implements the HTTP layer for data entry sessions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new entry [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the session endpoints. The caller mounts them behind
// [middleware.RequireAuth].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/rule-sets", handler.listRuleSets)
	router.Post("/", handler.open)

	router.Route("/{id}", func(session chi.Router) {
		session.Get("/", handler.get)
		session.Delete("/", handler.discard)
		session.Post("/actions", handler.dispatch)
		session.Post("/columns/{field}/toggle", handler.toggleColumn)
		session.Put("/rule-set", handler.changeRuleSet)
		session.Post("/import", handler.importCSV)
		session.Get("/export", handler.exportCSV)
		session.Get("/payload", handler.payload)
		session.Post("/submit", handler.submit)
	})

	return router
}

// GET /api/v1/entry/rule-sets.
func (handler *Handler) listRuleSets(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.service.RuleSetNames())
}

/*
POST /api/v1/entry.

Request (Body):
  - OpenInput JSON (all fields optional)

Response:
  - 201: View
  - 400: Unknown rule set
*/
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	var input OpenInput
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	view, err := handler.service.Open(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

// GET /api/v1/entry/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
POST /api/v1/entry/{id}/actions.

Request (Body):
  - {"type": "edit_field", "row": 0, "field": "dataset_type", "value": "RRS"}

Response:
  - 200: View (with a warning when the index was out of range)
  - 400: Malformed or unknown action, rejected value
*/
func (handler *Handler) dispatch(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxActionBody))
	if err != nil {
		respond.Error(writer, request, apperr.PayloadTooLarge(maxActionBody))
		return
	}

	action, err := dataentry.DecodeAction(body)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid action",
			apperr.FieldError{Field: FieldAction, Message: err.Error()}))
		return
	}

	handler.respondDispatch(writer, request, func() (*View, error) {
		return handler.service.Dispatch(request.Context(), id, action)
	})
}

// POST /api/v1/entry/{id}/columns/{field}/toggle.
func (handler *Handler) toggleColumn(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondDispatch(writer, request, func() (*View, error) {
		return handler.service.ToggleColumn(request.Context(), id, requestutil.Param(request, "field"))
	})
}

// PUT /api/v1/entry/{id}/rule-set.
func (handler *Handler) changeRuleSet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input RuleSetInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.ChangeRuleSet(request.Context(), id, input.RuleSet)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
POST /api/v1/entry/{id}/import.

Request:
  - mode: string (append | replace, query, default append)
  - Body: text/csv with a header row of field keys

Response:
  - 200: View
  - 400: Unknown header, uncoercible cell or bad mode
*/
func (handler *Handler) importCSV(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := http.MaxBytesReader(writer, request.Body, maxCSVBody)
	mode := dataentry.ImportMode(request.URL.Query().Get(FieldMode))

	handler.respondDispatch(writer, request, func() (*View, error) {
		return handler.service.Import(request.Context(), id, body, mode)
	})
}

// GET /api/v1/entry/{id}/export.
func (handler *Handler) exportCSV(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var buffer bytes.Buffer
	if err := handler.service.Export(request.Context(), id, &buffer); err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="entry-`+id+`.csv"`)
	writer.WriteHeader(http.StatusOK)
	_, _ = buffer.WriteTo(writer)
}

/*
GET /api/v1/entry/{id}/payload.

Response:
  - 200: BulkRequest
  - 400: Per-cell validation errors
*/
func (handler *Handler) payload(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bulk, err := handler.service.BulkRequest(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bulk)
}

/*
POST /api/v1/entry/{id}/submit.

Response:
  - 201: SubmitResult
  - 400: Per-cell validation errors
  - 403: Sharing with a group the caller is not in
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Submit(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// DELETE /api/v1/entry/{id}.
func (handler *Handler) discard(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Discard(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// respondDispatch renders a reduction result. An out-of-range index is a
// silent no-op for the client: 200 with the unchanged table and a warning.
func (handler *Handler) respondDispatch(writer http.ResponseWriter, request *http.Request, run func() (*View, error)) {
	view, err := run()
	switch {
	case err == nil:
		respond.OK(writer, view)
	case errors.Is(err, dataentry.ErrInvalidIndex) && view != nil:
		respond.OKWithWarning(writer, view, WarningInvalidIndex, err.Error())
	default:
		respond.Error(writer, request, err)
	}
}
