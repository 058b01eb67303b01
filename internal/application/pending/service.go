package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/authcheck-api/internal/domain"
	pkgtoken "github.com/authcheck-api/internal/pkg/token"
)

// TTL is how long a correlation token stays consumable. Expiry is enforced
// lazily at consume time; no background sweeper is needed because a new
// attempt overwrites the old entry and DynamoDB TTL clears abandoned rows.
const TTL = 10 * time.Minute

// Store is the ledger's view of the identity store.
type Store interface {
	Put(ctx context.Context, p *domain.PendingVerification) error
	ConsumeByToken(ctx context.Context, token string) (*domain.PendingVerification, error)
}

// Service is the pending-verification ledger. It owns creation, consumption,
// and expiry of correlation tokens.
type Service interface {
	// Create opens a verification attempt for the requester and returns the
	// correlation token to embed in the authorization URL. A requester has at
	// most one live attempt: a second call supersedes the first, whose token
	// then fails to consume.
	Create(ctx context.Context, requesterID, guildID string) (string, error)

	// Consume redeems a token exactly once and returns the requester/guild
	// pair it was created for. Unknown, already-consumed, and expired tokens
	// all return domain.ErrSessionExpired; callers must not retry.
	Consume(ctx context.Context, token string) (*domain.PendingVerification, error)
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, requesterID, guildID string) (string, error) {
	token, err := pkgtoken.NewCorrelationToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	p := &domain.PendingVerification{
		RequesterID: requesterID,
		Token:       token,
		GuildID:     guildID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(TTL).Unix(),
	}
	if err := s.store.Put(ctx, p); err != nil {
		return "", err
	}
	return token, nil
}

func (s *service) Consume(ctx context.Context, token string) (*domain.PendingVerification, error) {
	p, err := s.store.ConsumeByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown or consumed token: %w", domain.ErrSessionExpired)
		}
		return nil, err
	}
	if time.Since(p.CreatedAt) > TTL {
		return nil, fmt.Errorf("token issued at %s: %w", p.CreatedAt.Format(time.RFC3339), domain.ErrSessionExpired)
	}
	return p, nil
}
