package request

import (
	"net/url"

	"yamdb/pkg/utils"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int    `json:"page" validate:"min=1"`
	PerPage int    `json:"per_page" validate:"min=1,max=100"`
	Search  string `json:"search,omitempty"`
}

// NewPaginatedRequest reads page, per_page and search from query.
func NewPaginatedRequest(query url.Values) *PaginatedRequest {
	req := &PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), DefaultPerPage),
		Search:  query.Get("search"),
	}
	if req.PerPage > MaxPerPage {
		req.PerPage = MaxPerPage
	}
	return req
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
