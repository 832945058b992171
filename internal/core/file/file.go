// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package file stores uploaded sequencing files in an S3-compatible bucket.

Uploaded objects start out unlinked. The data entry table attaches them to
rows through linked_files, and bulk submission records the link, after which
the object no longer appears in the unlinked listing. Object keys are
UUIDv7-prefixed so they list in upload order and never collide.
*/
package file

import "time"

// Object describes one stored file.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// PresignedURL is a temporary download link.
type PresignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

const (
	// formField is the multipart field carrying the upload.
	formField = "file"

	// memoryThreshold is the multipart size kept in memory before spilling to disk.
	memoryThreshold = 32 << 20

	// maxNameLength bounds the sanitized original filename kept in the key.
	maxNameLength = 128

	defaultContentType = "application/octet-stream"
)
