package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/dmitrijs2005/sheetglance/internal/cryptox"
	"github.com/dmitrijs2005/sheetglance/internal/server/auth"
	"github.com/dmitrijs2005/sheetglance/internal/server/models"
)

// LocalProvider is a self-contained identity provider backed by the users
// table. It hashes passwords with argon2id and issues HS256 access tokens.
// Intended for development and tests; production deployments point the
// server at a remote provider instead.
type LocalProvider struct {
	users         UsersRepository
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewLocalProvider constructs a LocalProvider.
func NewLocalProvider(users UsersRepository, secretKey string, tokenValidity time.Duration) *LocalProvider {
	return &LocalProvider{
		users:         users,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}
}

func (p *LocalProvider) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	salt := common.GenerateRandByteArray(32)
	user := &models.User{
		Email:        email,
		Name:         name,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword(pw, salt),
	}

	created, err := p.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrValidation)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

func (p *LocalProvider) Login(ctx context.Context, email, password string) (string, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	if !cryptox.VerifyPassword(pw, user.Salt, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	return auth.GenerateToken(user.ID, p.jwtSecret, p.tokenValidity)
}

func (p *LocalProvider) Resolve(ctx context.Context, accessToken string) (string, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, p.jwtSecret)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", common.ErrInvalidToken
	}
	return userID, nil
}
