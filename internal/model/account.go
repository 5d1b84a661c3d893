package model

import "time"

// AuthMethod identifies how the server authenticates against a mailbox.
type AuthMethod string

const (
	AuthPlain  AuthMethod = "PLAIN"
	AuthLogin  AuthMethod = "LOGIN"
	AuthOAuth2 AuthMethod = "OAUTH2"
)

// Account is a mailbox connection configured on the ingestion server.
// Accounts are owned by the server; the dashboard only reads a
// point-in-time list and issues commands against account IDs.
type Account struct {
	// ID is the server-assigned stable identifier.
	ID string `json:"_id"`

	// Name is the user-defined display label.
	Name string `json:"name"`

	// Email is the mailbox address.
	Email string `json:"email"`

	IMAPHost   string     `json:"imapHost"`
	IMAPPort   int        `json:"imapPort"`
	UseSSL     bool       `json:"useSSL"`
	AuthMethod AuthMethod `json:"authMethod"`
	Username   string     `json:"username"`

	// IsActive reports whether the account is enabled for ingestion.
	IsActive bool `json:"isActive"`

	// IsConnected reports the server's last known connectivity result.
	IsConnected bool `json:"isConnected"`

	LastSync     *time.Time `json:"lastSync,omitempty"`
	TotalEmails  int        `json:"totalEmails"`
	SyncedEmails int        `json:"syncedEmails"`
	LastError    string     `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateAccount is the request body for registering a new account.
type CreateAccount struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	IMAPHost    string     `json:"imapHost"`
	IMAPPort    int        `json:"imapPort"`
	UseSSL      bool       `json:"useSSL"`
	AuthMethod  AuthMethod `json:"authMethod"`
	Username    string     `json:"username"`
	Password    string     `json:"password,omitempty"`
	OAuth2Token string     `json:"oauth2Token,omitempty"`
}

// UpdateAccount is the request body for modifying an account. Nil
// fields are omitted so the server leaves them unchanged.
type UpdateAccount struct {
	Name        *string     `json:"name,omitempty"`
	IMAPHost    *string     `json:"imapHost,omitempty"`
	IMAPPort    *int        `json:"imapPort,omitempty"`
	UseSSL      *bool       `json:"useSSL,omitempty"`
	AuthMethod  *AuthMethod `json:"authMethod,omitempty"`
	Username    *string     `json:"username,omitempty"`
	Password    *string     `json:"password,omitempty"`
	OAuth2Token *string     `json:"oauth2Token,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
}
