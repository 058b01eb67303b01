package check

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/infrastructure/discord"
	"github.com/authcheck-api/internal/pkg/agefmt"
	"github.com/authcheck-api/internal/pkg/id"
)

const (
	colorFlagged = 0xff0000
	colorClean   = 0x00ff00
)

// LinkStore reads committed identity links.
type LinkStore interface {
	Get(ctx context.Context, requesterID string) (*domain.VerifiedLink, error)
}

// Evaluator runs the blacklist classification.
type Evaluator interface {
	Evaluate(ctx context.Context, providerID int64, guildID string) (*domain.BlacklistReport, error)
}

// Reconciler applies the access role.
type Reconciler interface {
	Reconcile(ctx context.Context, requesterID, guildID string) (domain.ReconcileOutcome, error)
}

// ConfigSource resolves report routing for the guild.
type ConfigSource interface {
	Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error)
}

// Notifier posts the report embed to the guild's report channel.
type Notifier interface {
	SendEmbed(ctx context.Context, channelID string, embed discord.Embed) error
}

// Archive persists report JSON for audit.
type Archive interface {
	PutJSON(ctx context.Context, key string, v interface{}) (string, error)
}

// AlertPublisher pushes flagged-report alerts to ops tooling.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, subject, message string) error
}

// Service runs the privileged background-check command: evaluate, reconcile,
// assemble the report, then route it. Routing failures (channel, archive,
// alert) degrade to warnings — the report itself is still returned.
type Service interface {
	Check(ctx context.Context, requesterID, guildID string) (*domain.CheckReport, error)
}

type service struct {
	links      LinkStore
	evaluator  Evaluator
	reconciler Reconciler
	configs    ConfigSource
	notifier   Notifier
	archive    Archive
	alerts     AlertPublisher
}

// ServiceDeps bundles the check service's collaborators. Notifier, Archive,
// and Alerts may be nil; the corresponding routing step is skipped.
type ServiceDeps struct {
	Links      LinkStore
	Evaluator  Evaluator
	Reconciler Reconciler
	Configs    ConfigSource
	Notifier   Notifier
	Archive    Archive
	Alerts     AlertPublisher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		links:      deps.Links,
		evaluator:  deps.Evaluator,
		reconciler: deps.Reconciler,
		configs:    deps.Configs,
		notifier:   deps.Notifier,
		archive:    deps.Archive,
		alerts:     deps.Alerts,
	}
}

func (s *service) Check(ctx context.Context, requesterID, guildID string) (*domain.CheckReport, error) {
	link, err := s.links.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.reconciler.Reconcile(ctx, requesterID, guildID)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.evaluator.Evaluate(ctx, link.ProviderID, guildID)
	if err != nil {
		return nil, err
	}

	report := &domain.CheckReport{
		ReportID:       id.New(),
		RequesterID:    requesterID,
		GuildID:        guildID,
		ProviderID:     link.ProviderID,
		ProviderHandle: link.ProviderHandle,
		AccountAgeDays: evaluation.AccountAgeDays,
		Matches:        evaluation.Matches,
		Clean:          evaluation.Clean,
		RoleStatus:     outcome,
		CheckedAt:      time.Now().UTC(),
	}

	s.route(ctx, report)
	return report, nil
}

func (s *service) route(ctx context.Context, report *domain.CheckReport) {
	if s.archive != nil {
		key := fmt.Sprintf("reports/%s/%s.json", report.GuildID, report.ReportID)
		if _, err := s.archive.PutJSON(ctx, key, report); err != nil {
			slog.Warn("report archive failed", "report_id", report.ReportID, "err", err)
		}
	}

	if s.notifier != nil {
		cfg, err := s.configs.Resolve(ctx, report.GuildID)
		if err != nil {
			slog.Warn("report routing config lookup failed", "guild_id", report.GuildID, "err", err)
		} else if cfg.ReportChannelID != "" {
			if err := s.notifier.SendEmbed(ctx, cfg.ReportChannelID, buildEmbed(report)); err != nil {
				slog.Warn("report channel notification failed", "channel_id", cfg.ReportChannelID, "err", err)
			}
		}
	}

	if s.alerts != nil && !report.Clean {
		subject := fmt.Sprintf("Flagged background check: %s", report.ProviderHandle)
		message := fmt.Sprintf("requester=%s provider=%d matches=%d report=%s",
			report.RequesterID, report.ProviderID, len(report.Matches), report.ReportID)
		if err := s.alerts.PublishAlert(ctx, subject, message); err != nil {
			slog.Warn("flagged-report alert failed", "report_id", report.ReportID, "err", err)
		}
	}
}

func buildEmbed(report *domain.CheckReport) discord.Embed {
	color := colorClean
	if !report.Clean {
		color = colorFlagged
	}

	blacklistValue := "None found"
	if len(report.Matches) > 0 {
		lines := make([]string, 0, len(report.Matches))
		for _, m := range report.Matches {
			lines = append(lines, fmt.Sprintf("• **%s** - Rank: `%s`", m.Name, m.Rank))
		}
		blacklistValue = strings.Join(lines, "\n")
	}

	return discord.Embed{
		Title:       "Background Check Report",
		Description: fmt.Sprintf("Target: <@%s>", report.RequesterID),
		Color:       color,
		Timestamp:   report.CheckedAt.Format(time.RFC3339),
		Fields: []discord.EmbedField{
			{Name: "User ID", Value: report.RequesterID, Inline: true},
			{Name: "Username", Value: report.ProviderHandle, Inline: true},
			{Name: "Provider ID", Value: fmt.Sprintf("%d", report.ProviderID), Inline: true},
			{Name: "Account Age", Value: agefmt.Days(report.AccountAgeDays)},
			{Name: fmt.Sprintf("Blacklisted Groups (%d)", len(report.Matches)), Value: blacklistValue},
			{Name: "Role Status", Value: string(report.RoleStatus)},
		},
		Footer: &discord.EmbedFooter{Text: "AuthChecker | report " + report.ReportID},
	}
}
