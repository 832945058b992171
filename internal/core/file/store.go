// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package file

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the bucket the uploads live in.
type ObjectStore interface {

	/*
		Put writes an object.

		Parameters:
		  - context: context.Context
		  - key: string
		  - body: io.ReadSeeker (seekable so the SDK can sign the payload)
		  - size: int64
		  - contentType: string

		Returns:
		  - error: Transport or bucket failures
	*/
	Put(context context.Context, key string, body io.ReadSeeker, size int64, contentType string) error

	// List returns every object under prefix, ordered by key.
	List(context context.Context, prefix string) ([]Object, error)

	// Exists reports whether key is present.
	Exists(context context.Context, key string) (bool, error)

	// PresignGet returns a GET URL valid for ttl.
	PresignGet(context context.Context, key string, ttl time.Duration) (string, error)
}

// LinkRepository knows which object keys are attached to datasets.
type LinkRepository interface {
	// LinkedPaths returns the subset of paths already linked to a dataset.
	LinkedPaths(context context.Context, paths []string) ([]string, error)
}
