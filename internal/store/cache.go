package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dtran/maildash/internal/model"
)

// SessionCache keeps the last server responses (account list, search
// hits) in a SQLite database so views can re-sort and re-filter
// without another round trip. The dashboard holds no durable state:
// callers open it at ":memory:" and everything dies with the process.
type SessionCache struct {
	db *sqlx.DB
}

// Open creates the cache database at path (normally ":memory:") and
// applies pending schema migrations.
func Open(path string) (*SessionCache, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database vanishes when its last connection closes;
	// pin the pool to a single connection so every query sees it.
	db.SetMaxOpenConns(1)

	s := &SessionCache{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SessionCache) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SessionCache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceAccounts swaps the cached account list for the latest fetch.
func (s *SessionCache) ReplaceAccounts(ctx context.Context, accounts []model.Account) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return fmt.Errorf("clearing accounts: %w", err)
	}

	const query = `
		INSERT INTO accounts (
			id, name, email, is_active, is_connected,
			total_emails, synced_emails, raw, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, a := range accounts {
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshaling account %s: %w", a.ID, err)
		}
		_, err = tx.ExecContext(ctx, query,
			a.ID, a.Name, a.Email,
			boolToInt(a.IsActive), boolToInt(a.IsConnected),
			a.TotalEmails, a.SyncedEmails, string(raw), now,
		)
		if err != nil {
			return fmt.Errorf("caching account %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// Accounts returns the cached account list, ordered by name.
func (s *SessionCache) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT raw FROM accounts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		var a model.Account
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decoding cached account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// CacheSearchResults stores one page of search hits under the query
// that produced them, replacing any previous hits for that query.
func (s *SessionCache) CacheSearchResults(ctx context.Context, query string, emails []model.Email) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emails WHERE query = ?", query); err != nil {
		return fmt.Errorf("clearing cached results: %w", err)
	}

	const insert = `
		INSERT OR REPLACE INTO emails (
			id, account_id, subject, sender, recipient,
			folder, esp, date, preview, is_read, query, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, e := range emails {
		_, err := tx.ExecContext(ctx, insert,
			e.ID, e.AccountID, e.Subject, e.From, e.To,
			e.Folder, e.ESP, e.Date.UTC(), e.Preview,
			boolToInt(e.IsRead), query, now,
		)
		if err != nil {
			return fmt.Errorf("caching email %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// EmailFilter narrows and orders cached search hits.
type EmailFilter struct {
	Query     string
	AccountID string
	Folder    string
	SortBy    string // "date", "sender", "subject"
	SortDesc  bool
	Limit     int
}

// CachedEmails returns previously fetched search hits matching the
// filter, without touching the network.
func (s *SessionCache) CachedEmails(ctx context.Context, filter EmailFilter) ([]model.Email, error) {
	conditions := []string{"query = ?"}
	args := []interface{}{filter.Query}

	if filter.AccountID != "" {
		conditions = append(conditions, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.Folder != "" {
		conditions = append(conditions, "folder = ?")
		args = append(args, filter.Folder)
	}

	sortBy := "date"
	switch filter.SortBy {
	case "sender":
		sortBy = "sender"
	case "subject":
		sortBy = "subject"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT id, account_id, subject, sender, recipient, folder, esp, date, preview, is_read FROM emails WHERE %s ORDER BY %s %s",
		strings.Join(conditions, " AND "), sortBy, direction,
	)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cached emails: %w", err)
	}
	defer rows.Close()

	var emails []model.Email
	for rows.Next() {
		var (
			e      model.Email
			isRead int
		)
		err := rows.Scan(&e.ID, &e.AccountID, &e.Subject, &e.From, &e.To,
			&e.Folder, &e.ESP, &e.Date, &e.Preview, &isRead)
		if err != nil {
			return nil, fmt.Errorf("scanning email row: %w", err)
		}
		e.IsRead = isRead != 0
		emails = append(emails, e)
	}

	return emails, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
