// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice adds the generic helpers missing from the standard [slices] package.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements for which predicate holds, in order.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Missing returns the elements of want absent from have, in want's order.
func Missing[T comparable](want, have []T) []T {
	present := make(map[T]struct{}, len(have))
	for _, v := range have {
		present[v] = struct{}{}
	}
	return Filter(want, func(v T) bool {
		_, ok := present[v]
		return !ok
	})
}
