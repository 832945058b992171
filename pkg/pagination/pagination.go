// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses list windows from query strings and builds the
// meta block of paginated envelopes.
//
// Clients either page ("page", "limit") or scroll ("offset", "limit"). An
// explicit offset wins over a page number.
package pagination

import (
	"net/http"

	"github.com/taibuivan/stager/pkg/convert"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1
)

// Params is one list window.
type Params struct {
	Page   int
	Limit  int
	offset int
}

// Offset returns the SQL OFFSET for the window.
func (p Params) Offset() int {
	return p.offset
}

// Meta builds the response metadata once the total is known.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// FromRequest parses "page", "offset" and "limit". Invalid values fall back
// to the defaults and limits above [MaxLimit] are clamped to it.
func FromRequest(r *http.Request) Params {
	values := r.URL.Query()

	limit := convert.ToIntD(values.Get("limit"), DefaultLimit)
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	if raw := values.Get("offset"); raw != "" {
		offset := max(convert.ToIntD(raw, 0), 0)
		return Params{Page: offset/limit + 1, Limit: limit, offset: offset}
	}

	page := max(convert.ToIntD(values.Get("page"), DefaultPage), DefaultPage)
	return Params{Page: page, Limit: limit, offset: (page - 1) * limit}
}
