// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/metrics"
	"github.com/taibuivan/stager/pkg/slice"
	"github.com/taibuivan/stager/pkg/uuid"
)

// Options tunes the upload service.
type Options struct {
	MaxUploadSize int64
	PresignTTL    time.Duration
}

// # Service Layer

// Service manages uploads and their download links.
type Service struct {
	objects ObjectStore
	links   LinkRepository
	metrics *metrics.Metrics
	options Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a new file [Service].
func NewService(objects ObjectStore, links LinkRepository, m *metrics.Metrics, options Options, logger *slog.Logger) *Service {
	return &Service{
		objects: objects,
		links:   links,
		metrics: m,
		options: options,
		logger:  logger,
		now:     time.Now,
	}
}

/*
Upload stores body under a fresh key derived from the original filename.

Parameters:
  - context: context.Context
  - filename: string (client supplied, sanitized into the key)
  - contentType: string
  - size: int64
  - body: io.ReadSeeker

Returns:
  - *Object: The stored object
  - error: PAYLOAD_TOO_LARGE above the limit, INTERNAL on storage failure
*/
func (service *Service) Upload(context context.Context, filename, contentType string, size int64, body io.ReadSeeker) (*Object, error) {
	if size > service.options.MaxUploadSize {
		return nil, apperr.PayloadTooLarge(service.options.MaxUploadSize)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	key := ObjectKey(uuid.New(), filename)
	if err := service.objects.Put(context, key, body, size, contentType); err != nil {
		return nil, apperr.Internal(err)
	}

	service.metrics.UploadedBytes.Add(float64(size))
	service.logger.InfoContext(context, "file_uploaded",
		slog.String("key", key),
		slog.Int64("size", size),
	)

	return &Object{Key: key, Size: size, ContentType: contentType, LastModified: service.now().UTC()}, nil
}

// Unlinked lists the bucket objects no dataset references yet.
func (service *Service) Unlinked(context context.Context) ([]Object, error) {
	objects, err := service.objects.List(context, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}

	keys := slice.Map(objects, func(object Object) string { return object.Key })
	linked, err := service.links.LinkedPaths(context, keys)
	if err != nil {
		return nil, err
	}

	unlinked := slice.Missing(keys, linked)
	keep := make(map[string]struct{}, len(unlinked))
	for _, key := range unlinked {
		keep[key] = struct{}{}
	}

	out := slice.Filter(objects, func(object Object) bool {
		_, ok := keep[object.Key]
		return ok
	})
	if out == nil {
		out = []Object{}
	}
	return out, nil
}

// DownloadURL presigns a GET for an existing key.
func (service *Service) DownloadURL(context context.Context, key string) (*PresignedURL, error) {
	exists, err := service.objects.Exists(context, key)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !exists {
		return nil, apperr.NotFound("File")
	}

	url, err := service.objects.PresignGet(context, key, service.options.PresignTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &PresignedURL{Key: key, URL: url, ExpiresAt: service.now().UTC().Add(service.options.PresignTTL)}, nil
}

/*
ObjectKey joins an id and a sanitized filename into a key without slashes,
so keys can travel as a single URL path segment.

	ObjectKey("0190...", "../Run 7/sample.bam") == "0190..._sample.bam"
*/
func ObjectKey(id, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = ""
	}

	var builder strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
		if builder.Len() >= maxNameLength {
			break
		}
	}

	name := strings.Trim(builder.String(), "._")
	if name == "" {
		return id
	}
	return id + "_" + name
}
