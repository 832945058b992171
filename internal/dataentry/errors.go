// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is reported when an action targets a row that does not exist.
	ErrInvalidIndex = errors.New("dataentry: invalid row index")

	// ErrUnknownField is reported for keys outside the closed field set.
	ErrUnknownField = errors.New("dataentry: unknown field")

	// ErrInvalidValue is reported when a value cannot be coerced into a field's kind.
	ErrInvalidValue = errors.New("dataentry: invalid field value")

	// ErrUnknownAction is reported by [DecodeAction] for unrecognised action types.
	ErrUnknownAction = errors.New("dataentry: unknown action type")
)

// IndexError describes an out-of-range row index. It matches [ErrInvalidIndex]
// under [errors.Is].
type IndexError struct {
	Action string
	Index  int
	Len    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dataentry: %s: index %d out of range [0,%d)", e.Action, e.Index, e.Len)
}

// Unwrap exposes [ErrInvalidIndex].
func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

func checkIndex(action string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Action: action, Index: index, Len: length}
	}
	return nil
}
