package domain

import "time"

// DefaultGuildID is the distinguished scope used when a guild has no config
// row of its own.
const DefaultGuildID = "default"

// GuildConfig is the per-guild verification configuration.
// PK: guild_id. Channel and role IDs are opaque routing hints for the platform
// collaborator.
type GuildConfig struct {
	GuildID           string    `json:"guild_id" dynamodbav:"guild_id"`
	VerifyChannelID   string    `json:"verify_channel_id" dynamodbav:"verify_channel_id"`
	ReportChannelID   string    `json:"report_channel_id" dynamodbav:"report_channel_id"`
	VerifiedRoleID    string    `json:"verified_role_id" dynamodbav:"verified_role_id"`
	BlacklistedGroups []int64   `json:"blacklisted_groups" dynamodbav:"blacklisted_groups"`
	UpdatedAt         time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// UpdateGuildConfigRequest is the admin settings payload.
type UpdateGuildConfigRequest struct {
	VerifyChannelID   *string `json:"verify_channel_id"`
	ReportChannelID   *string `json:"report_channel_id"`
	VerifiedRoleID    *string `json:"verified_role_id"`
	BlacklistedGroups []int64 `json:"blacklisted_groups" validate:"omitempty,dive,gt=0"`
}

// BotCredentials is the persisted credential row maintained through the admin
// dashboard. PK: id = "bot". Empty fields fall back to process environment.
type BotCredentials struct {
	ID                   string    `json:"-" dynamodbav:"id"`
	BotToken             string    `json:"bot_token,omitempty" dynamodbav:"bot_token"`
	ProviderClientID     string    `json:"provider_client_id" dynamodbav:"provider_client_id"`
	ProviderClientSecret string    `json:"provider_client_secret,omitempty" dynamodbav:"provider_client_secret"`
	ProviderRedirectURI  string    `json:"provider_redirect_uri" dynamodbav:"provider_redirect_uri"`
	UpdatedAt            time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// ProviderCredentials is the resolved OAuth client configuration used by the
// exchange step.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Complete reports whether every field needed for an exchange is present.
func (c ProviderCredentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}
