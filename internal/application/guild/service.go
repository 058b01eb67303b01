package guild

import (
	"context"
	"errors"
	"time"

	"github.com/authcheck-api/internal/domain"
)

// ConfigStore is the service's view of the guild-config table.
type ConfigStore interface {
	Get(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	Put(ctx context.Context, g *domain.GuildConfig) error
}

// CredentialsStore is the service's view of the bot-credentials row.
type CredentialsStore interface {
	Get(ctx context.Context) (*domain.BotCredentials, error)
	Put(ctx context.Context, c *domain.BotCredentials) error
}

// Service reads and writes guild configuration and resolves provider
// credentials (persisted row first, process environment as fallback).
type Service interface {
	// Resolve returns the guild's config, falling back to the default scope,
	// then to an empty config. Never returns domain.ErrNotFound.
	Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	Update(ctx context.Context, guildID string, req domain.UpdateGuildConfigRequest) (*domain.GuildConfig, error)
	Credentials(ctx context.Context) (domain.ProviderCredentials, error)
	SaveCredentials(ctx context.Context, c *domain.BotCredentials) error
}

type service struct {
	configs  ConfigStore
	creds    CredentialsStore
	envCreds domain.ProviderCredentials
}

// NewService builds the guild service. envCreds holds the environment-sourced
// provider credentials used when no persisted row (or field) exists.
func NewService(configs ConfigStore, creds CredentialsStore, envCreds domain.ProviderCredentials) Service {
	return &service{configs: configs, creds: creds, envCreds: envCreds}
}

func (s *service) Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	g, err := s.configs.Get(ctx, guildID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	g, err = s.configs.Get(ctx, domain.DefaultGuildID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return &domain.GuildConfig{GuildID: guildID}, nil
}

func (s *service) Update(ctx context.Context, guildID string, req domain.UpdateGuildConfigRequest) (*domain.GuildConfig, error) {
	g, err := s.Resolve(ctx, guildID)
	if err != nil {
		return nil, err
	}
	g.GuildID = guildID
	if req.VerifyChannelID != nil {
		g.VerifyChannelID = *req.VerifyChannelID
	}
	if req.ReportChannelID != nil {
		g.ReportChannelID = *req.ReportChannelID
	}
	if req.VerifiedRoleID != nil {
		g.VerifiedRoleID = *req.VerifiedRoleID
	}
	if req.BlacklistedGroups != nil {
		g.BlacklistedGroups = dedupe(req.BlacklistedGroups)
	}
	g.UpdatedAt = time.Now().UTC()
	if err := s.configs.Put(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Credentials(ctx context.Context) (domain.ProviderCredentials, error) {
	resolved := s.envCreds
	stored, err := s.creds.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.ProviderCredentials{}, err
		}
		return resolved, nil
	}
	if stored.ProviderClientID != "" {
		resolved.ClientID = stored.ProviderClientID
	}
	if stored.ProviderClientSecret != "" {
		resolved.ClientSecret = stored.ProviderClientSecret
	}
	if stored.ProviderRedirectURI != "" {
		resolved.RedirectURI = stored.ProviderRedirectURI
	}
	return resolved, nil
}

// SaveCredentials merges non-empty fields over the stored row so secrets can
// be rotated one at a time.
func (s *service) SaveCredentials(ctx context.Context, c *domain.BotCredentials) error {
	stored, err := s.creds.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		stored = &domain.BotCredentials{}
	}
	if c.BotToken != "" {
		stored.BotToken = c.BotToken
	}
	if c.ProviderClientID != "" {
		stored.ProviderClientID = c.ProviderClientID
	}
	if c.ProviderClientSecret != "" {
		stored.ProviderClientSecret = c.ProviderClientSecret
	}
	if c.ProviderRedirectURI != "" {
		stored.ProviderRedirectURI = c.ProviderRedirectURI
	}
	stored.UpdatedAt = time.Now().UTC()
	return s.creds.Put(ctx, stored)
}

// dedupe removes duplicate group IDs, keeping first occurrence order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
