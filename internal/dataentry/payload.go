// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"net/url"
	"strings"
)

// Payload flattens rows to their field values for the bulk-create endpoint.
// Editing metadata is dropped.
func Payload(state State) []map[string]any {
	out := make([]map[string]any, 0, len(state.Rows))
	for _, row := range state.Rows {
		flat := make(map[string]any, len(orderedFields))
		for _, field := range orderedFields {
			flat[string(field)] = row.Value(field)
		}
		out = append(out, flat)
	}
	return out
}

// GroupsQuery encodes the group selection as the "groups" query parameter.
func GroupsQuery(state State) url.Values {
	values := url.Values{}
	if len(state.Groups) > 0 {
		values.Set("groups", strings.Join(state.Groups, ","))
	}
	return values
}

// SubmittableRows returns deep copies of the rows with editing metadata removed.
func SubmittableRows(state State) []Row {
	out := make([]Row, len(state.Rows))
	for i, row := range state.Rows {
		out[i] = row.Clone()
		out[i].Meta = nil
	}
	return out
}
