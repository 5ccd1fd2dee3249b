// Package query builds OData query parameters for Graph requests.
package query

import (
	"strconv"
	"strings"
)

type Params interface {
	AsMap() map[string]string
	NeedsEventualConsistencyHeaderFlag() bool
}

// GraphParams covers the OData system query options used by Microsoft Graph.
type GraphParams struct {
	Count   bool
	Expand  string
	Filter  string
	Orderby string
	Search  string
	Select  []string
	Skip    int
	Top     int32
}

func (s GraphParams) AsMap() map[string]string {
	params := make(map[string]string)
	if s.Count {
		params["$count"] = "true"
	}
	if s.Expand != "" {
		params["$expand"] = s.Expand
	}
	if s.Filter != "" {
		params["$filter"] = s.Filter
	}
	if s.Orderby != "" {
		params["$orderby"] = s.Orderby
	}
	if s.Search != "" {
		params["$search"] = s.Search
	}
	if len(s.Select) > 0 {
		params["$select"] = strings.Join(s.Select, ",")
	}
	if s.Skip > 0 {
		params["$skip"] = strconv.Itoa(s.Skip)
	}
	if s.Top > 0 {
		params["$top"] = strconv.FormatInt(int64(s.Top), 10)
	}
	return params
}

// NeedsEventualConsistencyHeaderFlag reports whether the request must carry
// the ConsistencyLevel: eventual header for advanced directory queries.
func (s GraphParams) NeedsEventualConsistencyHeaderFlag() bool {
	return s.Count || s.Search != "" || s.Orderby != "" ||
		strings.Contains(s.Filter, "endsWith") || strings.Contains(s.Filter, "$count")
}

// Escape doubles single quotes inside an OData string literal.
func Escape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
