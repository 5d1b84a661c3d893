package model

import "time"

// Email is a single ingested message as returned by the search API.
type Email struct {
	ID        string    `json:"_id"`
	AccountID string    `json:"accountId"`
	MessageID string    `json:"messageId"`
	Subject   string    `json:"subject"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Folder    string    `json:"folder"`
	Date      time.Time `json:"date"`
	Preview   string    `json:"preview,omitempty"`
	HasAttach bool      `json:"hasAttachments"`
	ESP       string    `json:"esp,omitempty"`
	IsRead    bool      `json:"isRead"`
}

// SearchFilters narrows a full-text search. Empty fields are omitted
// from the query string.
type SearchFilters struct {
	AccountID string
	Folder    string
	ESP       string
	DateFrom  string
	DateTo    string
}

// SearchResult is one page of search hits plus paging metadata.
type SearchResult struct {
	Emails     []Email `json:"emails"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// Suggestions holds type-ahead completions for the search box.
type Suggestions struct {
	Senders  []string `json:"senders"`
	Subjects []string `json:"subjects"`
	Domains  []string `json:"domains"`
}
