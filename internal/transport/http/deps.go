package http

import (
	"github.com/authcheck-api/internal/infrastructure/discord"
	"github.com/authcheck-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/authcheck-api/internal/infrastructure/jwt"
	"github.com/authcheck-api/internal/infrastructure/roblox"
	s3infra "github.com/authcheck-api/internal/infrastructure/s3"
	"github.com/authcheck-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. ReportArchive,
// AlertPublisher, DiscordClient, and JWTProvider are optional; missing ones
// disable the corresponding surface instead of failing startup.
type Deps struct {
	PendingRepo     *dynamo.PendingRepo
	LinkRepo        *dynamo.LinkRepo
	GuildConfigRepo *dynamo.GuildConfigRepo
	CredentialsRepo *dynamo.CredentialsRepo
	ProviderClient  *roblox.Client
	DiscordClient   *discord.Client
	ReportArchive   *s3infra.Archive
	AlertPublisher  sns.AlertPublisher
	JWTProvider     *jwtinfra.Provider
}
