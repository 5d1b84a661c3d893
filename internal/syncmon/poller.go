package syncmon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtran/maildash/internal/model"
)

// StatusTransport is the slice of the server API the monitor reads
// from. Satisfied by api.Client.
type StatusTransport interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	GetSyncStatus(ctx context.Context, accountID string) (*model.SyncStatus, error)
}

// SnapshotMsg is a tea.Msg carrying the result of one polling batch:
// the refreshed account list and the statuses that were applied to
// the store for that batch.
type SnapshotMsg struct {
	Accounts []model.Account
	Statuses map[string]model.SyncStatus
}

// BatchErrorMsg is a tea.Msg sent when the account-list fetch for a
// batch fails. Per-account status failures never produce this; they
// degrade that account to "no status" instead.
type BatchErrorMsg struct {
	Err error
}

// Poller drives the status store from two repeating timers: a
// baseline refresh that always runs, and a fast refresh that only
// does work while some account is running. Both are owned by a single
// goroutine between Start and Stop, so tearing down the monitoring
// view cancels every timer it created.
type Poller struct {
	transport StatusTransport
	store     *StatusStore
	logger    *slog.Logger

	baseEvery time.Duration
	fastEvery time.Duration

	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	running bool
}

// NewPoller creates a poller over the given transport and store.
// Non-positive intervals fall back to the defaults (5s baseline,
// 1s fast).
func NewPoller(transport StatusTransport, store *StatusStore, baseEvery, fastEvery time.Duration, logger *slog.Logger) *Poller {
	if baseEvery <= 0 {
		baseEvery = 5 * time.Second
	}
	if fastEvery <= 0 {
		fastEvery = time.Second
	}
	return &Poller{
		transport: transport,
		store:     store,
		logger:    logger,
		baseEvery: baseEvery,
		fastEvery: fastEvery,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start launches the polling goroutine and returns a command that
// delivers its results to the Bubble Tea runtime. Calling Start while
// already running returns a fresh subscription command only.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return p.waitForResult()
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	go p.run(stopCh)

	return p.waitForResult()
}

// Stop halts both timers. Stopping an already-stopped poller is a
// no-op, so teardown paths may call it freely.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// Running reports whether the polling goroutine is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh requests one out-of-band batch, equivalent to a baseline
// tick. It never blocks; if a refresh is already queued the request
// is coalesced into it.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// run owns both tickers until stopCh closes.
func (p *Poller) run(stopCh chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-stopCh
		cancel()
	}()

	base := time.NewTicker(p.baseEvery)
	defer base.Stop()
	fast := time.NewTicker(p.fastEvery)
	defer fast.Stop()

	// Populate the view immediately rather than waiting a full period.
	p.runBatch(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-base.C:
			p.runBatch(ctx)
		case <-fast.C:
			// The fast tick is a no-op unless some job is running;
			// an idle dashboard generates no extra traffic.
			if p.store.AnyRunning() {
				p.runBatch(ctx)
			}
		case <-p.triggerCh:
			p.runBatch(ctx)
		}
	}
}

// runBatch performs one refresh: fetch the account list, then every
// account's status concurrently. The batch map is assembled off-store
// and swapped in once, so a slow response for one account can never
// interleave with results from the same batch. Accounts whose status
// fetch fails are simply absent from the batch.
func (p *Poller) runBatch(ctx context.Context) {
	accounts, err := p.transport.ListAccounts(ctx)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("account list refresh failed", "error", err)
		}
		p.send(BatchErrorMsg{Err: err})
		return
	}

	var (
		mu       sync.Mutex
		statuses = make(map[string]model.SyncStatus, len(accounts))
		wg       sync.WaitGroup
	)

	for _, account := range accounts {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			status, err := p.transport.GetSyncStatus(ctx, id)
			if err != nil || status == nil {
				if err != nil && p.logger != nil {
					p.logger.Debug("status fetch failed",
						"account", id, "error", err)
				}
				return
			}

			status.AccountID = id
			mu.Lock()
			statuses[id] = *status
			mu.Unlock()
		}(account.ID)
	}
	wg.Wait()

	p.store.ReplaceAll(statuses)
	p.send(SnapshotMsg{Accounts: accounts, Statuses: statuses})
}

// send delivers a message without blocking the polling loop; if the
// UI has fallen behind the buffered channel, the update is dropped
// and the next batch supersedes it.
func (p *Poller) send(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
	}
}

// waitForResult returns a command that yields the next poller message.
// The app re-arms it after handling each result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}

// WaitForNext re-subscribes to poller results after a message has
// been processed.
func (p *Poller) WaitForNext() tea.Cmd {
	return p.waitForResult()
}
