package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// GoTrueProvider talks to a GoTrue-compatible identity API (the auth service
// behind Supabase). Admin calls authenticate with the server's service
// credential; Resolve introspects the caller's bearer token.
type GoTrueProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewGoTrueProvider constructs a provider for the API at baseURL. serviceKey
// is the service-role credential used for admin user creation.
func NewGoTrueProvider(baseURL, serviceKey string) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type gotrueUser struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	UserMetadata map[string]string `json:"user_metadata"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (u *gotrueUser) toModel() *models.User {
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.UserMetadata["name"],
		CreatedAt: u.CreatedAt,
	}
}

func (p *GoTrueProvider) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	payload := map[string]any{
		"email":         email,
		"password":      password,
		"user_metadata": map[string]string{"name": name},
		// Confirm immediately; no mail server is configured.
		"email_confirm": true,
	}

	var user gotrueUser
	err := p.do(ctx, http.MethodPost, "/admin/users", p.serviceKey, payload, &user)
	if err != nil {
		return nil, err
	}
	return user.toModel(), nil
}

func (p *GoTrueProvider) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]any{"email": email, "password": password}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload, &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", common.ErrorUnauthorized
	}
	return out.AccessToken, nil
}

func (p *GoTrueProvider) Resolve(ctx context.Context, accessToken string) (string, error) {
	var user gotrueUser
	if err := p.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", common.ErrInvalidToken
	}
	return user.ID, nil
}

// do performs one JSON round trip against the provider and maps HTTP status
// codes onto the shared error taxonomy.
func (p *GoTrueProvider) do(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case resp.StatusCode == http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("identity provider status %d: %w", resp.StatusCode, common.ErrorInternal)
	}
}
