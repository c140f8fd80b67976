package catalog

import (
	"fmt"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Filter narrows a list query. Zero values mean "no restriction".
type Filter struct {
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// Normalize applies the default page size and clamps out-of-range values.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (f Filter) cacheKey() string {
	active := "any"
	if f.Active != nil {
		active = fmt.Sprintf("%t", *f.Active)
	}
	return fmt.Sprintf("%s|%s|%d|%d", strings.ToLower(f.Search), active, f.Limit, f.Offset)
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
