// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer converts between values and the nullable pointers used for
// optional columns.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// NilIfZero returns nil for the zero value and a pointer to v otherwise.
// Empty strings from the entry table become SQL NULLs this way.
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
