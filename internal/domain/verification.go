package domain

import "time"

// PendingVerification correlates an in-flight OAuth flow back to the requester
// who started it. PK: requester_id — at most one live attempt per requester;
// a new attempt overwrites the old one. The token is single-use and resolves
// to exactly one requester/guild pair until consumed or expired.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL (hygiene only — expiry is
// enforced at consume time against CreatedAt).
type PendingVerification struct {
	RequesterID string    `json:"requester_id" dynamodbav:"requester_id"`
	Token       string    `json:"-" dynamodbav:"token"`
	GuildID     string    `json:"guild_id" dynamodbav:"guild_id"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt   int64     `json:"-" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// VerifiedLink is the committed requester→provider identity mapping.
// PK: requester_id. The provider_id side of the bijection is enforced by the
// provider_claims table at commit time.
type VerifiedLink struct {
	RequesterID    string    `json:"requester_id" dynamodbav:"requester_id"`
	ProviderID     int64     `json:"provider_id" dynamodbav:"provider_id"`
	ProviderHandle string    `json:"provider_handle" dynamodbav:"provider_handle"`
	GuildID        string    `json:"guild_id" dynamodbav:"guild_id"`
	VerifiedAt     time.Time `json:"verified_at" dynamodbav:"verified_at"`
}

// ProviderClaim reserves a provider identity for a single requester.
// PK: provider_id.
type ProviderClaim struct {
	ProviderID  int64  `dynamodbav:"provider_id"`
	RequesterID string `dynamodbav:"requester_id"`
}
