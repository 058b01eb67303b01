package reconcile

import (
	"context"
	"log/slog"

	"github.com/authcheck-api/internal/domain"
)

// LinkStore is the verified-identity lookup the reconciler keys off.
type LinkStore interface {
	IsVerified(ctx context.Context, requesterID string) (bool, error)
}

// ConfigSource resolves the guild's designated access role.
type ConfigSource interface {
	Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error)
}

// Platform is the role surface of the chat platform collaborator.
type Platform interface {
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

// Service decides whether the platform-side access role must be granted and
// applies it idempotently.
type Service interface {
	// Reconcile returns a terminal outcome. Collaborator failures map to
	// OutcomeGrantFailed with a nil error — the condition is user-visible and
	// recoverable, never raised through the caller.
	Reconcile(ctx context.Context, requesterID, guildID string) (domain.ReconcileOutcome, error)
}

type service struct {
	links    LinkStore
	configs  ConfigSource
	platform Platform
}

func NewService(links LinkStore, configs ConfigSource, platform Platform) Service {
	return &service{links: links, configs: configs, platform: platform}
}

func (s *service) Reconcile(ctx context.Context, requesterID, guildID string) (domain.ReconcileOutcome, error) {
	verified, err := s.links.IsVerified(ctx, requesterID)
	if err != nil {
		return "", err
	}
	if !verified {
		return domain.OutcomeNotVerified, nil
	}

	cfg, err := s.configs.Resolve(ctx, guildID)
	if err != nil {
		return "", err
	}
	if cfg.VerifiedRoleID == "" {
		slog.Warn("no verified role configured", "guild_id", guildID)
		return domain.OutcomeGrantFailed, nil
	}

	if s.platform == nil {
		slog.Warn("platform client unavailable, cannot grant role", "guild_id", guildID)
		return domain.OutcomeGrantFailed, nil
	}

	roles, err := s.platform.MemberRoles(ctx, guildID, requesterID)
	if err != nil {
		slog.Warn("member role lookup failed", "requester_id", requesterID, "guild_id", guildID, "err", err)
		return domain.OutcomeGrantFailed, nil
	}
	for _, r := range roles {
		if r == cfg.VerifiedRoleID {
			return domain.OutcomeAlreadyHeld, nil
		}
	}

	if err := s.platform.AddMemberRole(ctx, guildID, requesterID, cfg.VerifiedRoleID); err != nil {
		slog.Warn("role grant failed", "requester_id", requesterID, "guild_id", guildID, "role_id", cfg.VerifiedRoleID, "err", err)
		return domain.OutcomeGrantFailed, nil
	}
	return domain.OutcomeGranted, nil
}
