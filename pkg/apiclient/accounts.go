package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marmos91/gridaccounts/pkg/models"
)

const accountsPath = "/api/v1/accounts"

// RegisterResult is the outcome of a registration or activation.
type RegisterResult struct {
	Account  *models.Account `json:"account"`
	Pending  bool            `json:"pending"`
	Notice   string          `json:"notice"`
	Warnings []string        `json:"warnings"`
}

// ActiveAccounts is the response of the active account listing. Supported
// is false when the directory cannot enumerate accounts.
type ActiveAccounts struct {
	Supported bool              `json:"supported"`
	Accounts  []*models.Account `json:"accounts"`
}

// ActiveCount is the response of the active account count.
type ActiveCount struct {
	Supported bool  `json:"supported"`
	Count     int64 `json:"count"`
}

// GetAccount returns an account joined with its identity mapping.
func (c *Client) GetAccount(ctx context.Context, principalID string) (*models.AccountWithMapping, error) {
	return getResource[models.AccountWithMapping](ctx, c, resourcePath(accountsPath, principalID), nil)
}

// DeleteAccount removes an account and its mapping.
func (c *Client) DeleteAccount(ctx context.Context, principalID string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(accountsPath, principalID), nil, nil)
}

// ActivateAccount provisions a pending account.
func (c *Client) ActivateAccount(ctx context.Context, principalID string) (*RegisterResult, error) {
	return sendResource[RegisterResult](ctx, c, http.MethodPost, resourcePath(accountsPath, principalID, "activate"), nil)
}

// ListActiveAccounts returns accounts whose name contains term and does not
// match exclude.
func (c *Client) ListActiveAccounts(ctx context.Context, term, exclude string) (*ActiveAccounts, error) {
	q := url.Values{}
	if term != "" {
		q.Set("term", term)
	}
	if exclude != "" {
		q.Set("exclude", exclude)
	}
	return getResource[ActiveAccounts](ctx, c, accountsPath+"/active", q)
}

// CountActiveAccounts returns the number of active accounts.
func (c *Client) CountActiveAccounts(ctx context.Context, exclude string) (*ActiveCount, error) {
	q := url.Values{}
	if exclude != "" {
		q.Set("exclude", exclude)
	}
	return getResource[ActiveCount](ctx, c, accountsPath+"/active/count", q)
}
