package blacklist

import (
	"context"
	"time"

	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/infrastructure/roblox"
)

// Provider is the affiliation/profile surface the evaluator reads from.
type Provider interface {
	GetUser(ctx context.Context, userID int64) (*roblox.Profile, error)
	GetUserGroups(ctx context.Context, userID int64) ([]domain.Affiliation, error)
}

// ConfigSource resolves the guild blacklist configuration.
type ConfigSource interface {
	Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error)
}

// Service classifies a provider identity against a guild's group blacklist.
type Service interface {
	// Evaluate fetches the identity's creation timestamp and full affiliation
	// list, and intersects the affiliations against the guild blacklist.
	// Matches preserve the provider's affiliation ordering. A fetch failure
	// returns an error and no report — a failed fetch is never "clean".
	Evaluate(ctx context.Context, providerID int64, guildID string) (*domain.BlacklistReport, error)
}

type service struct {
	provider Provider
	configs  ConfigSource
}

func NewService(provider Provider, configs ConfigSource) Service {
	return &service{provider: provider, configs: configs}
}

func (s *service) Evaluate(ctx context.Context, providerID int64, guildID string) (*domain.BlacklistReport, error) {
	cfg, err := s.configs.Resolve(ctx, guildID)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.GetUser(ctx, providerID)
	if err != nil {
		return nil, err
	}
	affiliations, err := s.provider.GetUserGroups(ctx, providerID)
	if err != nil {
		return nil, err
	}

	blacklisted := make(map[int64]bool, len(cfg.BlacklistedGroups))
	for _, id := range cfg.BlacklistedGroups {
		blacklisted[id] = true
	}

	matches := []domain.GroupMatch{}
	for _, a := range affiliations {
		if blacklisted[a.GroupID] {
			matches = append(matches, domain.GroupMatch{GroupID: a.GroupID, Name: a.Name, Rank: a.Rank})
		}
	}

	return &domain.BlacklistReport{
		ProviderID:     providerID,
		AccountAgeDays: ageDays(profile.Created, time.Now().UTC()),
		Matches:        matches,
		Clean:          len(matches) == 0,
	}, nil
}

// ageDays is the whole-day floor of the account age at evaluation time.
func ageDays(created, now time.Time) int {
	if created.IsZero() || created.After(now) {
		return 0
	}
	return int(now.Sub(created).Hours() / 24)
}
