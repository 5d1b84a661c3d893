package syncmon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtran/maildash/internal/logging"
	"github.com/dtran/maildash/internal/model"
)

// fakeTransport serves canned accounts and statuses, with optional
// per-account failures.
type fakeTransport struct {
	mu       sync.Mutex
	accounts []model.Account
	statuses map[string]model.SyncStatus
	failList error
	failFor  map[string]error
	calls    int
}

func (f *fakeTransport) ListAccounts(ctx context.Context) ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]model.Account, len(f.accounts))
	copy(out, f.accounts)
	return out, nil
}

func (f *fakeTransport) GetSyncStatus(ctx context.Context, accountID string) (*model.SyncStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[accountID]; ok {
		return nil, err
	}
	st, ok := f.statuses[accountID]
	if !ok {
		return nil, fmt.Errorf("no status for %s", accountID)
	}
	return &st, nil
}

func (f *fakeTransport) set(accounts []model.Account, statuses map[string]model.SyncStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = accounts
	f.statuses = statuses
}

func account(id string) model.Account {
	return model.Account{ID: id, Name: "acct-" + id, Email: id + "@example.com"}
}

func TestRunBatchReplacesStore(t *testing.T) {
	transport := &fakeTransport{}
	transport.set(
		[]model.Account{account("a"), account("b")},
		map[string]model.SyncStatus{
			"a": {State: model.StateRunning, ProcessedEmails: 10, TotalEmails: 20},
			"b": {State: model.StateCompleted},
		},
	)

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Minute, time.Minute, logging.Null())

	p.runBatch(context.Background())

	msg := p.WaitForNext()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Len(t, snap.Accounts, 2)
	assert.Len(t, snap.Statuses, 2)

	st, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.StateRunning, st.State)
	assert.Equal(t, "a", st.AccountID)

	// The next batch removes "b" entirely; its entry must be dropped
	// rather than left stale.
	transport.set(
		[]model.Account{account("a")},
		map[string]model.SyncStatus{
			"a": {State: model.StateCompleted},
		},
	)
	p.runBatch(context.Background())

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, model.StateIdle, store.StateFor("b"))
}

func TestRunBatchDegradesFailedAccounts(t *testing.T) {
	transport := &fakeTransport{
		failFor: map[string]error{"b": errors.New("boom")},
	}
	transport.set(
		[]model.Account{account("a"), account("b")},
		map[string]model.SyncStatus{
			"a": {State: model.StateRunning},
			"b": {State: model.StateRunning},
		},
	)

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Minute, time.Minute, logging.Null())

	p.runBatch(context.Background())

	// The failing account degrades to "no record"; the batch as a
	// whole still lands.
	msg := p.WaitForNext()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Len(t, snap.Accounts, 2)
	assert.Len(t, snap.Statuses, 1)

	_, ok = store.Get("b")
	assert.False(t, ok)
	assert.Equal(t, model.StateRunning, store.StateFor("a"))
}

func TestRunBatchListFailure(t *testing.T) {
	transport := &fakeTransport{failList: errors.New("connection refused")}

	store := NewStatusStore()
	store.ReplaceAll(map[string]model.SyncStatus{
		"a": {State: model.StateRunning},
	})

	p := NewPoller(transport, store, time.Minute, time.Minute, logging.Null())
	p.runBatch(context.Background())

	msg := p.WaitForNext()()
	batchErr, ok := msg.(BatchErrorMsg)
	require.True(t, ok)
	assert.Error(t, batchErr.Err)

	// A failed list fetch must not wipe the last good snapshot.
	assert.Equal(t, 1, store.Len())
}

func TestStartStopIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	transport.set(nil, nil)

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Hour, time.Hour, logging.Null())

	cmd := p.Start()
	require.NotNil(t, cmd)
	assert.True(t, p.Running())

	// Starting again must not spawn a second goroutine; it only
	// returns a fresh subscription.
	cmd2 := p.Start()
	require.NotNil(t, cmd2)
	assert.True(t, p.Running())

	p.Stop()
	assert.False(t, p.Running())
	p.Stop() // second stop is a no-op
	assert.False(t, p.Running())
}

func TestRefreshTriggersOutOfBandBatch(t *testing.T) {
	transport := &fakeTransport{}
	transport.set([]model.Account{account("a")}, map[string]model.SyncStatus{
		"a": {State: model.StateCompleted},
	})

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Hour, time.Hour, logging.Null())

	p.Start()
	defer p.Stop()

	// The immediate first batch.
	msg := p.WaitForNext()()
	_, ok := msg.(SnapshotMsg)
	require.True(t, ok)

	// With hour-long tickers, only Refresh can cause another batch.
	p.Refresh()
	msg = p.WaitForNext()()
	_, ok = msg.(SnapshotMsg)
	require.True(t, ok)

	transport.mu.Lock()
	calls := transport.calls
	transport.mu.Unlock()
	assert.GreaterOrEqual(t, calls, 2)
}

func TestFastTimerIdleWithoutRunningSync(t *testing.T) {
	transport := &fakeTransport{}
	transport.set([]model.Account{account("a")}, map[string]model.SyncStatus{
		"a": {State: model.StateCompleted},
	})

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Hour, 10*time.Millisecond, logging.Null())

	p.Start()
	defer p.Stop()

	// Consume the immediate first batch.
	msg := p.WaitForNext()()
	_, ok := msg.(SnapshotMsg)
	require.True(t, ok)

	// With nothing RUNNING, fast ticks must not touch the network.
	time.Sleep(100 * time.Millisecond)
	transport.mu.Lock()
	idleCalls := transport.calls
	transport.mu.Unlock()
	assert.Equal(t, 1, idleCalls)

	// Once a batch observes a RUNNING job, the fast timer does work.
	transport.set([]model.Account{account("a")}, map[string]model.SyncStatus{
		"a": {State: model.StateRunning},
	})
	p.Refresh()
	msg = p.WaitForNext()()
	_, ok = msg.(SnapshotMsg)
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)
	transport.mu.Lock()
	activeCalls := transport.calls
	transport.mu.Unlock()
	assert.Greater(t, activeCalls, 2)
}

// gatedTransport blocks one account's status fetch until released, to
// observe what the store looks like mid-batch.
type gatedTransport struct {
	fakeTransport
	gate    chan struct{}
	gateFor string
}

func (g *gatedTransport) GetSyncStatus(ctx context.Context, accountID string) (*model.SyncStatus, error) {
	if accountID == g.gateFor {
		<-g.gate
	}
	return g.fakeTransport.GetSyncStatus(ctx, accountID)
}

func TestBatchAppliesAtomically(t *testing.T) {
	transport := &gatedTransport{
		gate:    make(chan struct{}),
		gateFor: "b",
	}
	transport.set(
		[]model.Account{account("a"), account("b")},
		map[string]model.SyncStatus{
			"a": {State: model.StateRunning},
			"b": {State: model.StatePaused},
		},
	)

	store := NewStatusStore()
	p := NewPoller(transport, store, time.Minute, time.Minute, logging.Null())

	done := make(chan struct{})
	go func() {
		p.runBatch(context.Background())
		close(done)
	}()

	// While account B's fetch is still pending, account A's already
	// settled result must not be visible in the store.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.Len())

	close(transport.gate)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("batch did not settle")
	}

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, model.StateRunning, store.StateFor("a"))
	assert.Equal(t, model.StatePaused, store.StateFor("b"))
}

func TestRefreshNeverBlocks(t *testing.T) {
	transport := &fakeTransport{}
	store := NewStatusStore()
	p := NewPoller(transport, store, time.Hour, time.Hour, logging.Null())

	// Not started: repeated refresh requests coalesce instead of
	// blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.Refresh()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Refresh blocked")
	}
}
