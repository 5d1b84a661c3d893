package syncmon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtran/maildash/internal/api"
	"github.com/dtran/maildash/internal/notify"
)

// CommandTransport is the slice of the server API the controller
// writes through. Satisfied by api.Client.
type CommandTransport interface {
	StartSync(ctx context.Context, accountID string) (*api.CommandResponse, error)
	PauseSync(ctx context.Context, accountID string) (*api.CommandResponse, error)
	ResumeSync(ctx context.Context, accountID string) (*api.CommandResponse, error)
	TestConnection(ctx context.Context, accountID string) (*api.TestResult, error)
	TestEmails(ctx context.Context, accountID string) (*api.TestResult, error)
}

// Op identifies a sync command for notifications and messages.
type Op string

const (
	OpStart  Op = "start"
	OpPause  Op = "pause"
	OpResume Op = "resume"
)

// FailureTitle returns the notification title used when the command
// is rejected by the server or the transport.
func (op Op) FailureTitle() string {
	switch op {
	case OpPause:
		return "Pause Failed"
	case OpResume:
		return "Resume Failed"
	default:
		return "Sync Failed"
	}
}

// FailureMessage returns the notification body for a rejected command.
func (op Op) FailureMessage(err error) string {
	return fmt.Sprintf("Failed to %s sync: %v", op, err)
}

// Command settle delays: how long after issuing a command the
// controller requests an out-of-band poll so the view converges
// before the next scheduled tick.
const (
	startRefreshDelay  = time.Second
	pauseRefreshDelay  = 500 * time.Millisecond
	resumeRefreshDelay = time.Second
)

// CommandDoneMsg is a tea.Msg sent when a sync command settles
// successfully. The optimistic notification has long been shown by
// then; the message exists for logging and tests.
type CommandDoneMsg struct {
	Op        Op
	AccountID string
	Message   string
}

// CommandFailedMsg is a tea.Msg sent when a sync command is rejected.
// It arrives strictly after the optimistic success notification for
// the same action; the UI shows both.
type CommandFailedMsg struct {
	Op        Op
	AccountID string
	Err       error
}

// TestKind distinguishes the two server-side probes.
type TestKind string

const (
	TestConnectivity TestKind = "connection"
	TestEmailCount   TestKind = "emails"
)

// TestCompletedMsg is a tea.Msg carrying a probe result.
type TestCompletedMsg struct {
	Kind      TestKind
	AccountID string
	Result    *api.TestResult
	Err       error
}

// Controller issues sync commands without blocking the UI. Every
// command follows the same protocol: submit the request in the
// background, show an optimistic notification immediately, surface a
// rejection later if the request fails, and schedule a short-delay
// refresh so the visible state converges toward the server's truth.
// Commands are forwarded as-is; whether a start on an already-running
// account is accepted is the server's decision.
type Controller struct {
	transport CommandTransport
	center    *notify.Center
	poller    *Poller
	logger    *slog.Logger
}

// NewController creates a controller over the given transport,
// notification center, and poller.
func NewController(transport CommandTransport, center *notify.Center, poller *Poller, logger *slog.Logger) *Controller {
	return &Controller{
		transport: transport,
		center:    center,
		poller:    poller,
		logger:    logger,
	}
}

// Start begins synchronization for the account.
func (c *Controller) Start(accountID string) tea.Cmd {
	return tea.Batch(
		c.center.Push(notify.KindSuccess, "Sync Started",
			"Email sync has started. Check progress below."),
		c.dispatch(OpStart, accountID, func(ctx context.Context) (string, error) {
			resp, err := c.transport.StartSync(ctx, accountID)
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		}),
		c.scheduleRefresh(startRefreshDelay),
	)
}

// Pause pauses the account's running sync job.
func (c *Controller) Pause(accountID string) tea.Cmd {
	return tea.Batch(
		c.center.Push(notify.KindInfo, "Sync Paused",
			"Email sync has been paused."),
		c.dispatch(OpPause, accountID, func(ctx context.Context) (string, error) {
			resp, err := c.transport.PauseSync(ctx, accountID)
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		}),
		c.scheduleRefresh(pauseRefreshDelay),
	)
}

// Resume resumes the account's paused sync job.
func (c *Controller) Resume(accountID string) tea.Cmd {
	return tea.Batch(
		c.center.Push(notify.KindSuccess, "Sync Resumed",
			"Email sync has been resumed. Check progress below."),
		c.dispatch(OpResume, accountID, func(ctx context.Context) (string, error) {
			resp, err := c.transport.ResumeSync(ctx, accountID)
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		}),
		c.scheduleRefresh(resumeRefreshDelay),
	)
}

// TestConnection probes the account's mailbox connectivity on the
// server and reports the outcome as a TestCompletedMsg.
func (c *Controller) TestConnection(accountID string) tea.Cmd {
	return tea.Batch(
		c.center.Push(notify.KindInfo, "Testing Connection",
			"Testing IMAP connection..."),
		func() tea.Msg {
			result, err := c.transport.TestConnection(context.Background(), accountID)
			return TestCompletedMsg{
				Kind:      TestConnectivity,
				AccountID: accountID,
				Result:    result,
				Err:       err,
			}
		},
	)
}

// TestEmails asks the server to count the account's visible messages
// and reports the outcome as a TestCompletedMsg.
func (c *Controller) TestEmails(accountID string) tea.Cmd {
	return tea.Batch(
		c.center.Push(notify.KindInfo, "Testing Mailbox",
			"Counting mailbox messages..."),
		func() tea.Msg {
			result, err := c.transport.TestEmails(context.Background(), accountID)
			return TestCompletedMsg{
				Kind:      TestEmailCount,
				AccountID: accountID,
				Result:    result,
				Err:       err,
			}
		},
	)
}

// dispatch wraps a command call as a background tea.Cmd. The Bubble
// Tea runtime executes it on its own goroutine, so the UI never waits
// on the request; only the settled outcome comes back as a message.
func (c *Controller) dispatch(op Op, accountID string, fn func(context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		message, err := fn(context.Background())
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("sync command failed",
					"op", string(op), "account", accountID, "error", err)
			}
			return CommandFailedMsg{Op: op, AccountID: accountID, Err: err}
		}
		return CommandDoneMsg{Op: op, AccountID: accountID, Message: message}
	}
}

// scheduleRefresh asks the poller for one manual batch after the
// given delay.
func (c *Controller) scheduleRefresh(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		c.poller.Refresh()
		return nil
	})
}
