// Package discord is the thin platform REST client used for role grants and
// report-channel notifications. The gateway (session loop) lives in a separate
// process; this client only covers the calls the core needs.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/authcheck-api/internal/domain"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Embed is a minimal message embed payload.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Client calls the platform REST API with a bot token.
// APIBase is overridable for tests.
type Client struct {
	APIBase string

	token string
	http  *http.Client
}

func New(botToken string) *Client {
	return &Client{
		APIBase: defaultAPIBase,
		token:   botToken,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// MemberRoles returns the role IDs a guild member currently holds.
func (c *Client) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	var member struct {
		Roles []string `json:"roles"`
	}
	url := fmt.Sprintf("%s/guilds/%s/members/%s", c.APIBase, guildID, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &member); err != nil {
		return nil, err
	}
	return member.Roles, nil
}

// AddMemberRole grants a role to a guild member. Requires the bot to hold
// Manage Roles above the target role; permission failures surface as errors
// for the caller to translate, never as silent success.
func (c *Client) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.APIBase, guildID, userID, roleID)
	return c.do(ctx, http.MethodPut, url, nil, nil)
}

// SendEmbed posts an embed message to a channel.
func (c *Client) SendEmbed(ctx context.Context, channelID string, embed Embed) error {
	payload := map[string]interface{}{
		"embeds": []Embed{embed},
	}
	url := fmt.Sprintf("%s/channels/%s/messages", c.APIBase, channelID)
	return c.do(ctx, http.MethodPost, url, payload, nil)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s returned status %d: %w", method, url, resp.StatusCode, domain.ErrUpstreamUnavailable)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", url, domain.ErrUpstreamUnavailable)
		}
	}
	return nil
}
