// Package identity is the auth gate: it resolves bearer credentials to a
// principal (user id) against an identity provider, and proxies account
// creation and password login to that provider. The provider is an injected
// dependency so the core stays testable without the real backend.
package identity

import (
	"context"

	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// Provider is the identity provider contract.
//
// CreateUser registers an account using the server's service credential.
// Login exchanges email+password for an access token. Resolve validates a
// bearer token and returns the owning user id; it must be called before any
// user-scoped metadata access.
type Provider interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Resolve(ctx context.Context, accessToken string) (string, error)
}
