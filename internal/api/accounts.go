package api

import (
	"context"

	"github.com/dtran/maildash/internal/model"
)

// ListAccounts fetches the full account list.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := c.get(ctx, "/email-accounts", 0, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount registers a new mailbox account on the server.
func (c *Client) CreateAccount(ctx context.Context, data model.CreateAccount) (*model.Account, error) {
	var account model.Account
	if err := c.post(ctx, "/email-accounts", 0, data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount modifies an existing account.
func (c *Client) UpdateAccount(ctx context.Context, id string, data model.UpdateAccount) (*model.Account, error) {
	var account model.Account
	if err := c.put(ctx, "/email-accounts/"+id, 0, data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount removes an account and its ingested data.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.delete(ctx, "/email-accounts/"+id, 0)
}
