// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/constants"
	requestutil "github.com/taibuivan/stager/internal/platform/request"
	"github.com/taibuivan/stager/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for uploads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new file [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the upload endpoints. The caller mounts them behind
// [middleware.RequireAuth].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.upload)
	router.Get("/unlinked", handler.listUnlinked)
	router.Get("/{key}/url", handler.downloadURL)

	return router
}

/*
POST /api/v1/files.

Description: Accepts one multipart "file" part and stores it in the bucket.

Response:
  - 201: Object
  - 400: Missing file part
  - 413: Above the configured upload limit
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	limit := handler.service.options.MaxUploadSize
	request.Body = http.MaxBytesReader(writer, request.Body, limit+memoryThreshold)

	if err := request.ParseMultipartForm(memoryThreshold); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.PayloadTooLarge(limit))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Expected a multipart form"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	upload, header, err := request.FormFile(formField)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Missing multipart field",
			apperr.FieldError{Field: formField, Message: "This field is required"}))
		return
	}
	defer upload.Close()

	object, err := handler.service.Upload(request.Context(), header.Filename, header.Header.Get(constants.HeaderContentType), header.Size, upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, object)
}

// GET /api/v1/files/unlinked.
func (handler *Handler) listUnlinked(writer http.ResponseWriter, request *http.Request) {
	objects, err := handler.service.Unlinked(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, objects)
}

/*
GET /api/v1/files/{key}/url.

Response:
  - 200: PresignedURL
  - 404: Unknown key
*/
func (handler *Handler) downloadURL(writer http.ResponseWriter, request *http.Request) {
	presigned, err := handler.service.DownloadURL(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, presigned)
}
