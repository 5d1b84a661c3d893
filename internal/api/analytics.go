package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dtran/maildash/internal/model"
)

// analyticsParams builds the shared accountId/limit query string.
func analyticsParams(accountID string, limit int) string {
	params := url.Values{}
	if accountID != "" {
		params.Set("accountId", accountID)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if encoded := params.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// GetOverview fetches the aggregate dashboard numbers, optionally
// scoped to one account.
func (c *Client) GetOverview(ctx context.Context, accountID string) (*model.AnalyticsOverview, error) {
	var overview model.AnalyticsOverview
	err := c.get(ctx, "/analytics/overview"+analyticsParams(accountID, 0), 0, &overview)
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// GetTopSenders fetches the top-senders aggregation.
func (c *Client) GetTopSenders(ctx context.Context, accountID string, limit int) ([]model.SenderAnalytics, error) {
	var senders []model.SenderAnalytics
	err := c.get(ctx, "/analytics/senders"+analyticsParams(accountID, limit), 0, &senders)
	if err != nil {
		return nil, err
	}
	return senders, nil
}

// GetTopDomains fetches the top-domains aggregation.
func (c *Client) GetTopDomains(ctx context.Context, accountID string, limit int) ([]model.DomainAnalytics, error) {
	var domains []model.DomainAnalytics
	err := c.get(ctx, "/analytics/domains"+analyticsParams(accountID, limit), 0, &domains)
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// GetESPBreakdown fetches the sending-provider breakdown.
func (c *Client) GetESPBreakdown(ctx context.Context, accountID string, limit int) ([]model.ESPAnalytics, error) {
	var esps []model.ESPAnalytics
	err := c.get(ctx, "/analytics/esp"+analyticsParams(accountID, limit), 0, &esps)
	if err != nil {
		return nil, err
	}
	return esps, nil
}

// GetTimeSeries fetches daily email volume for the last `days` days.
func (c *Client) GetTimeSeries(ctx context.Context, accountID string, days int) ([]model.TimeSeriesPoint, error) {
	params := url.Values{}
	if accountID != "" {
		params.Set("accountId", accountID)
	}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	path := "/analytics/time-series"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var points []model.TimeSeriesPoint
	if err := c.get(ctx, path, 0, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetSecurityMetrics fetches SPF/DKIM/DMARC aggregates.
func (c *Client) GetSecurityMetrics(ctx context.Context, accountID string) (*model.SecurityMetrics, error) {
	var metrics model.SecurityMetrics
	err := c.get(ctx, "/analytics/security"+analyticsParams(accountID, 0), 0, &metrics)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}
