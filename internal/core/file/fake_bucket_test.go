// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stager/internal/core/file"
)

// fakeBucket answers the subset of the S3 REST API the store uses:
// PutObject, HeadObject and ListObjectsV2 with path-style addressing.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (bucket *fakeBucket) RoundTrip(request *http.Request) (*http.Response, error) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	// Path is /<bucket>/<key>.
	_, key, _ := strings.Cut(strings.TrimPrefix(request.URL.Path, "/"), "/")

	switch {
	case request.Method == http.MethodGet && request.URL.Query().Get("list-type") == "2":
		return bucket.list(request.URL.Query().Get("prefix")), nil

	case request.Method == http.MethodPut:
		body, err := io.ReadAll(request.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(request.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeAWSChunked(body)
		}
		bucket.objects[key] = body
		bucket.types[key] = request.Header.Get("Content-Type")
		return response(http.StatusOK, "", http.Header{"ETag": {`"etag"`}}), nil

	case request.Method == http.MethodHead:
		body, ok := bucket.objects[key]
		if !ok {
			return response(http.StatusNotFound, "", http.Header{}), nil
		}
		return response(http.StatusOK, "", http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {bucket.types[key]},
		}), nil
	}

	return response(http.StatusNotImplemented, "", http.Header{}), nil
}

func (bucket *fakeBucket) list(prefix string) *http.Response {
	keys := make([]string, 0, len(bucket.objects))
	for key := range bucket.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, key := range keys {
		fmt.Fprintf(&builder, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2026-01-01T00:00:00Z</LastModified></Contents>",
			key, len(bucket.objects[key]))
	}
	builder.WriteString("</ListBucketResult>")

	return response(http.StatusOK, builder.String(), http.Header{"Content-Type": {"application/xml"}})
}

func (bucket *fakeBucket) object(key string) ([]byte, bool) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	body, ok := bucket.objects[key]
	return body, ok
}

func response(status int, body string, header http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// decodeAWSChunked strips aws-chunked framing: "<hex>[;ext]\r\n<data>\r\n" repeated,
// ending with a zero-length chunk and optional trailers.
func decodeAWSChunked(raw []byte) []byte {
	reader := bufio.NewReader(bytes.NewReader(raw))
	var out bytes.Buffer
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return out.Bytes()
		}
		sizeText, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeText, 16, 64)
		if err != nil || size == 0 {
			return out.Bytes()
		}
		if _, err := io.CopyN(&out, reader, size); err != nil {
			return out.Bytes()
		}
		_, _ = reader.ReadString('\n')
	}
}

func newFakeStore(t *testing.T) (*file.S3Store, *fakeBucket) {
	t.Helper()

	bucket := newFakeBucket()
	store, err := file.NewS3Store(context.Background(), file.S3Config{
		Bucket:     "stager-uploads",
		Region:     "us-east-1",
		Endpoint:   "https://minio.test",
		AccessKey:  "minio",
		SecretKey:  "minio-secret",
		HTTPClient: &http.Client{Transport: bucket},
	})
	require.NoError(t, err)

	return store, bucket
}
