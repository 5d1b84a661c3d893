package api

import (
	"context"
	"time"

	"github.com/dtran/maildash/internal/model"
)

// Per-operation timeout ceilings. Starting a sync can take the server
// a long time to acknowledge while it opens the mailbox; control and
// status calls are expected to answer quickly.
const (
	startSyncTimeout      = 60 * time.Second
	pauseSyncTimeout      = 10 * time.Second
	resumeSyncTimeout     = 10 * time.Second
	syncStatusTimeout     = 15 * time.Second
	connectionTestTimeout = 30 * time.Second
	emailTestTimeout      = 30 * time.Second
)

// CommandResponse is the acknowledgement payload for sync commands.
type CommandResponse struct {
	Message string `json:"message"`
}

// TestResult is the payload for connection and email-count probes.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
}

// StartSync asks the server to begin synchronizing the account's
// mailbox. The server is authoritative about duplicate starts; this
// client forwards the command as-is.
func (c *Client) StartSync(ctx context.Context, accountID string) (*CommandResponse, error) {
	var resp CommandResponse
	err := c.post(ctx, "/sync/start/"+accountID, startSyncTimeout, struct{}{}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// PauseSync asks the server to pause a running sync job.
func (c *Client) PauseSync(ctx context.Context, accountID string) (*CommandResponse, error) {
	var resp CommandResponse
	err := c.post(ctx, "/sync/pause/"+accountID, pauseSyncTimeout, struct{}{}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResumeSync asks the server to resume a paused sync job.
func (c *Client) ResumeSync(ctx context.Context, accountID string) (*CommandResponse, error) {
	var resp CommandResponse
	err := c.post(ctx, "/sync/resume/"+accountID, resumeSyncTimeout, struct{}{}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSyncStatus fetches the server's current report for one account's
// sync job. A missing record is a server-side 404 and surfaces as an
// error; callers treat that as "no status" (implicit idle).
func (c *Client) GetSyncStatus(ctx context.Context, accountID string) (*model.SyncStatus, error) {
	var status model.SyncStatus
	err := c.get(ctx, "/sync/status/"+accountID, syncStatusTimeout, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// TestConnection asks the server to probe the account's IMAP
// connectivity.
func (c *Client) TestConnection(ctx context.Context, accountID string) (*TestResult, error) {
	var result TestResult
	err := c.get(ctx, "/sync/test/"+accountID, connectionTestTimeout, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TestEmails asks the server to count the messages visible in the
// account's mailbox.
func (c *Client) TestEmails(ctx context.Context, accountID string) (*TestResult, error) {
	var result TestResult
	err := c.get(ctx, "/sync/test-emails/"+accountID, emailTestTimeout, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
