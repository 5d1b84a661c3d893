package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dtran/maildash/internal/model"
)

// SearchEmails runs a full-text search with optional filters and
// pagination.
func (c *Client) SearchEmails(ctx context.Context, query string, filters model.SearchFilters, page, limit int) (*model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if filters.AccountID != "" {
		params.Set("accountId", filters.AccountID)
	}
	if filters.Folder != "" {
		params.Set("folder", filters.Folder)
	}
	if filters.ESP != "" {
		params.Set("esp", filters.ESP)
	}
	if filters.DateFrom != "" {
		params.Set("dateFrom", filters.DateFrom)
	}
	if filters.DateTo != "" {
		params.Set("dateTo", filters.DateTo)
	}

	var result model.SearchResult
	err := c.get(ctx, "/search/emails?"+params.Encode(), 0, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSuggestions fetches type-ahead completions for a partial query.
func (c *Client) GetSuggestions(ctx context.Context, query string, limit int) (*model.Suggestions, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var s model.Suggestions
	if err := c.get(ctx, "/search/suggestions?"+params.Encode(), 0, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
