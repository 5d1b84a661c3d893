package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtran/maildash/internal/model"
)

func TestSearchEmailsQueryString(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/emails", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(model.SearchResult{
			Emails: []model.Email{{ID: "e1", Subject: "Invoice", Date: time.Now()}},
			Total:  1, Page: 2, Limit: 20, TotalPages: 1,
		})
	}))

	result, err := client.SearchEmails(context.Background(), "invoice",
		model.SearchFilters{AccountID: "a1", Folder: "INBOX"}, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"invoice"}, gotQuery["q"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"20"}, gotQuery["limit"])
	assert.Equal(t, []string{"a1"}, gotQuery["accountId"])
	assert.Equal(t, []string{"INBOX"}, gotQuery["folder"])

	// Empty filters must not appear at all.
	_, hasESP := gotQuery["esp"]
	assert.False(t, hasESP)

	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Emails, 1)
	assert.Equal(t, "Invoice", result.Emails[0].Subject)
}

func TestGetSuggestions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/suggestions", r.URL.Path)
		require.Equal(t, "inv", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(model.Suggestions{
			Senders:  []string{"invoices@vendor.com"},
			Subjects: []string{"Invoice #42"},
		})
	}))

	s, err := client.GetSuggestions(context.Background(), "inv", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoices@vendor.com"}, s.Senders)
	assert.Equal(t, []string{"Invoice #42"}, s.Subjects)
}

func TestAnalyticsEndpoints(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/analytics/overview":
			json.NewEncoder(w).Encode(model.AnalyticsOverview{TotalEmails: 9000})
		case "/analytics/senders":
			require.Equal(t, "7", r.URL.Query().Get("limit"))
			json.NewEncoder(w).Encode([]model.SenderAnalytics{
				{Sender: "news@example.com", Count: 120, Percentage: 1.3},
			})
		case "/analytics/domains":
			json.NewEncoder(w).Encode([]model.DomainAnalytics{
				{Domain: "example.com", Count: 300},
			})
		case "/analytics/esp":
			json.NewEncoder(w).Encode([]model.ESPAnalytics{})
		case "/analytics/security":
			require.Equal(t, "a1", r.URL.Query().Get("accountId"))
			json.NewEncoder(w).Encode(model.SecurityMetrics{})
		case "/analytics/time-series":
			require.Equal(t, "30", r.URL.Query().Get("days"))
			json.NewEncoder(w).Encode([]model.TimeSeriesPoint{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()

	overview, err := client.GetOverview(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 9000, overview.TotalEmails)

	senders, err := client.GetTopSenders(ctx, "", 7)
	require.NoError(t, err)
	require.Len(t, senders, 1)
	assert.Equal(t, "news@example.com", senders[0].Sender)

	domains, err := client.GetTopDomains(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, domains, 1)

	_, err = client.GetESPBreakdown(ctx, "", 0)
	require.NoError(t, err)

	_, err = client.GetSecurityMetrics(ctx, "a1")
	require.NoError(t, err)

	_, err = client.GetTimeSeries(ctx, "", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/analytics/overview",
		"/analytics/senders",
		"/analytics/domains",
		"/analytics/esp",
		"/analytics/security",
		"/analytics/time-series",
	}, paths)
}

func TestAccountLifecycle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/email-accounts":
			json.NewEncoder(w).Encode([]model.Account{{ID: "a1", Name: "Work"}})
		case r.Method == http.MethodPost && r.URL.Path == "/email-accounts":
			var body model.CreateAccount
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(model.Account{ID: "a2", Name: body.Name, Email: body.Email})
		case r.Method == http.MethodPut && r.URL.Path == "/email-accounts/a1":
			json.NewEncoder(w).Encode(model.Account{ID: "a1", Name: "Renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/email-accounts/a1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()

	list, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	created, err := client.CreateAccount(ctx, model.CreateAccount{
		Name: "Personal", Email: "me@example.com", IMAPHost: "imap.example.com", IMAPPort: 993,
	})
	require.NoError(t, err)
	assert.Equal(t, "a2", created.ID)
	assert.Equal(t, "Personal", created.Name)

	name := "Renamed"
	updated, err := client.UpdateAccount(ctx, "a1", model.UpdateAccount{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, client.DeleteAccount(ctx, "a1"))
}
