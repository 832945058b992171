// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/core/file"
	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/metrics"
)

type staticLinks []string

func (links staticLinks) LinkedPaths(_ context.Context, paths []string) ([]string, error) {
	var linked []string
	for _, path := range paths {
		if slices.Contains(links, path) {
			linked = append(linked, path)
		}
	}
	return linked, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestObjectKey verifies filenames are reduced to one safe path segment.
*/
func TestObjectKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sample.bam", "id_sample.bam"},
		{"../Run 7/sample.bam", "id_sample.bam"},
		{`C:\runs\élan.vcf.gz`, "id_lan.vcf.gz"},
		{"", "id"},
		{"..", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, file.ObjectKey("id", tt.filename))
		})
	}
}

/*
TestS3Store verifies the adapter against the fake bucket.
*/
func TestS3Store(t *testing.T) {
	store, bucket := newFakeStore(t)
	ctx := context.Background()

	// 1. Put
	payload := []byte("@read1\nACGT\n+\n!!!!\n")
	require.NoError(t, store.Put(ctx, "a_sample.fastq", bytes.NewReader(payload), int64(len(payload)), "text/plain"))

	stored, ok := bucket.object("a_sample.fastq")
	require.True(t, ok)
	assert.Equal(t, payload, stored)

	// 2. Exists
	exists, err := store.Exists(ctx, "a_sample.fastq")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	// 3. List
	require.NoError(t, store.Put(ctx, "b_other.bam", bytes.NewReader([]byte("x")), 1, "application/octet-stream"))
	objects, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "a_sample.fastq", objects[0].Key)
	assert.Equal(t, int64(len(payload)), objects[0].Size)

	// 4. Presign is computed locally
	url, err := store.PresignGet(ctx, "a_sample.fastq", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "https://minio.test/stager-uploads/a_sample.fastq")
	assert.Contains(t, url, "X-Amz-Expires=300")
}

/*
TestService verifies upload limits, unlinked filtering and download links.
*/
func TestService(t *testing.T) {
	store, _ := newFakeStore(t)
	m := metrics.New()
	service := file.NewService(store, staticLinks{"linked_file.bam"}, m, file.Options{
		MaxUploadSize: 16,
		PresignTTL:    time.Minute,
	}, discardLogger())
	ctx := context.Background()

	// 1. Oversized uploads are refused before storage
	_, err := service.Upload(ctx, "big.bam", "", 17, bytes.NewReader(make([]byte, 17)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apperr.As(err).HTTPStatus)

	// 2. Accepted uploads are counted
	object, err := service.Upload(ctx, "small.bam", "", 4, bytes.NewReader([]byte("ACGT")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(object.Key, "_small.bam"))
	assert.Equal(t, "application/octet-stream", object.ContentType)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.UploadedBytes))

	require.NoError(t, store.Put(ctx, "linked_file.bam", bytes.NewReader([]byte("x")), 1, "application/octet-stream"))

	// 3. Linked objects are filtered out
	unlinked, err := service.Unlinked(ctx)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, object.Key, unlinked[0].Key)

	// 4. Download links
	presigned, err := service.DownloadURL(ctx, object.Key)
	require.NoError(t, err)
	assert.Contains(t, presigned.URL, object.Key)

	_, err = service.DownloadURL(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestHandler_Upload verifies the multipart endpoint end to end.
*/
func TestHandler_Upload(t *testing.T) {
	store, bucket := newFakeStore(t)
	service := file.NewService(store, staticLinks{}, metrics.New(), file.Options{
		MaxUploadSize: 1 << 20,
		PresignTTL:    time.Minute,
	}, discardLogger())
	router := file.NewHandler(service).Routes()

	// 1. Upload
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "reads.fastq")
	require.NoError(t, err)
	_, err = part.Write([]byte("@r\nACGT\n+\n!!!!\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data file.Object `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	stored, ok := bucket.object(created.Data.Key)
	require.True(t, ok)
	assert.Equal(t, "@r\nACGT\n+\n!!!!\n", string(stored))

	// 2. Download URL by key
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/"+created.Data.Key+"/url", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 3. Missing file part
	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not multipart"))
	request.Header.Set("Content-Type", "text/plain")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
