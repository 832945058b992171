// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant string conversions for query parameters.

Malformed input falls back to a default instead of failing the request. Do not
use it where a malformed value must be reported.
*/
package convert

import (
	"strconv"

	"github.com/taibuivan/stager/pkg/pointer"
)

// ToIntD converts a string to an int, returning def if parsing fails or the string is empty.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToBoolPtr parses "true"/"false"/"1"/"0" into a pointer. Empty or malformed
// input yields nil, meaning "no filter".
func ToBoolPtr(str string) *bool {
	if str == "" {
		return nil
	}

	v, err := strconv.ParseBool(str)
	if err != nil {
		return nil
	}
	return pointer.To(v)
}
