package domain

import "time"

// Affiliation is a group membership returned by the identity provider,
// carrying the member's rank within the group.
type Affiliation struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
}

// GroupMatch is one blacklisted affiliation found during evaluation.
type GroupMatch struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
}

// BlacklistReport is the derived (never persisted) result of evaluating a
// provider identity against a guild's blacklist. Matches preserve the order
// of the provider's affiliation list.
type BlacklistReport struct {
	ProviderID     int64        `json:"provider_id"`
	AccountAgeDays int          `json:"account_age_days"`
	Matches        []GroupMatch `json:"matches"`
	Clean          bool         `json:"clean"`
}

// ReconcileOutcome is the terminal result of a role reconciliation attempt.
type ReconcileOutcome string

const (
	OutcomeGranted     ReconcileOutcome = "granted"
	OutcomeAlreadyHeld ReconcileOutcome = "already_held"
	OutcomeNotVerified ReconcileOutcome = "not_verified"
	OutcomeGrantFailed ReconcileOutcome = "grant_failed"
)

// CheckReport is the full background-check result produced by the privileged
// check command. Archived as JSON and routed to the guild's report channel.
type CheckReport struct {
	ReportID       string           `json:"report_id"`
	RequesterID    string           `json:"requester_id"`
	GuildID        string           `json:"guild_id"`
	ProviderID     int64            `json:"provider_id"`
	ProviderHandle string           `json:"provider_handle"`
	AccountAgeDays int              `json:"account_age_days"`
	Matches        []GroupMatch     `json:"matches"`
	Clean          bool             `json:"clean"`
	RoleStatus     ReconcileOutcome `json:"role_status"`
	CheckedAt      time.Time        `json:"checked_at"`
}
