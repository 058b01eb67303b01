package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/infrastructure/roblox"
)

// Ledger is the pending-verification ledger the resolver consumes tokens from.
type Ledger interface {
	Create(ctx context.Context, requesterID, guildID string) (string, error)
	Consume(ctx context.Context, token string) (*domain.PendingVerification, error)
}

// LinkStore commits and reads verified identity links.
type LinkStore interface {
	Upsert(ctx context.Context, link *domain.VerifiedLink) error
	Get(ctx context.Context, requesterID string) (*domain.VerifiedLink, error)
}

// Provider is the identity-provider client surface the resolver drives.
type Provider interface {
	AuthorizeURL(creds domain.ProviderCredentials, state string) string
	ExchangeCode(ctx context.Context, creds domain.ProviderCredentials, code string) (*roblox.TokenResponse, error)
	UserInfo(ctx context.Context, accessToken string) (*roblox.Identity, error)
}

// CredentialsSource resolves the OAuth client configuration.
type CredentialsSource interface {
	Credentials(ctx context.Context) (domain.ProviderCredentials, error)
}

// Result is the terminal success state of a callback invocation.
type Result struct {
	RequesterID    string
	GuildID        string
	ProviderID     int64
	ProviderHandle string
}

// Service bridges the two control flows: the session-side command that starts
// a verification, and the out-of-band OAuth callback that completes it.
type Service interface {
	// StartVerification opens a pending attempt and returns the
	// provider-hosted authorization URL for the requester.
	StartVerification(ctx context.Context, requesterID, guildID string) (string, error)

	// HandleCallback runs the callback state machine to a terminal state.
	// Every failure path leaves the store untouched; the single-use token
	// makes a reloaded redirect fail at the pending-resolution step instead
	// of re-exchanging a spent code.
	HandleCallback(ctx context.Context, code, state string) (*Result, error)

	// Link is the point lookup for the session side.
	Link(ctx context.Context, requesterID string) (*domain.VerifiedLink, error)
}

type service struct {
	ledger   Ledger
	links    LinkStore
	provider Provider
	creds    CredentialsSource
}

func NewService(ledger Ledger, links LinkStore, provider Provider, creds CredentialsSource) Service {
	return &service{ledger: ledger, links: links, provider: provider, creds: creds}
}

func (s *service) StartVerification(ctx context.Context, requesterID, guildID string) (string, error) {
	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return "", err
	}
	if !creds.Complete() {
		return "", fmt.Errorf("provider credentials missing: %w", domain.ErrNotConfigured)
	}
	token, err := s.ledger.Create(ctx, requesterID, guildID)
	if err != nil {
		return "", err
	}
	return s.provider.AuthorizeURL(creds, token), nil
}

func (s *service) HandleCallback(ctx context.Context, code, state string) (*Result, error) {
	if code == "" || state == "" {
		return nil, fmt.Errorf("code and state are required: %w", domain.ErrBadRequest)
	}

	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	if !creds.Complete() {
		return nil, fmt.Errorf("provider credentials missing: %w", domain.ErrNotConfigured)
	}

	token, err := s.provider.ExchangeCode(ctx, creds, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange rejected: %w", domain.ErrAuthFailed)
	}

	ident, err := s.provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	// The resolved identity is discarded if the token is unusable; nothing
	// has been written yet.
	p, err := s.ledger.Consume(ctx, state)
	if err != nil {
		return nil, err
	}

	link := &domain.VerifiedLink{
		RequesterID:    p.RequesterID,
		ProviderID:     ident.ID,
		ProviderHandle: ident.Handle,
		GuildID:        p.GuildID,
		VerifiedAt:     time.Now().UTC(),
	}
	if err := s.links.Upsert(ctx, link); err != nil {
		return nil, err
	}

	return &Result{
		RequesterID:    p.RequesterID,
		GuildID:        p.GuildID,
		ProviderID:     ident.ID,
		ProviderHandle: ident.Handle,
	}, nil
}

func (s *service) Link(ctx context.Context, requesterID string) (*domain.VerifiedLink, error) {
	return s.links.Get(ctx, requesterID)
}
