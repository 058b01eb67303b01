// Package roblox implements the identity-provider client: the OAuth 2.0
// authorization-code exchange plus the public user and group APIs used by
// background checks. Pure request/response, no state.
package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/authcheck-api/internal/domain"
)

const (
	defaultAuthBase   = "https://apis.roblox.com/oauth/v1"
	defaultUsersBase  = "https://users.roblox.com"
	defaultGroupsBase = "https://groups.roblox.com"
)

// Client talks to the provider's OAuth and public APIs.
// The base URLs are overridable for tests.
type Client struct {
	AuthBase   string
	UsersBase  string
	GroupsBase string

	http *http.Client
}

// New creates a provider client with a bounded-latency HTTP client.
// All calls run under the 10s timeout and are attempted exactly once.
func New() *Client {
	return &Client{
		AuthBase:   defaultAuthBase,
		UsersBase:  defaultUsersBase,
		GroupsBase: defaultGroupsBase,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the provider-hosted authorization URL the requester is
// sent to, with the correlation token as the OAuth state.
func (c *Client) AuthorizeURL(creds domain.ProviderCredentials, state string) string {
	q := url.Values{}
	q.Set("client_id", creds.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", creds.RedirectURI)
	q.Set("scope", "openid profile")
	q.Set("state", state)
	return c.AuthBase + "/authorize?" + q.Encode()
}

// TokenResponse is the provider token endpoint's response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for an access token.
// Attempted once per call; the browser redirect is the only retry mechanism.
func (c *Client) ExchangeCode(ctx context.Context, creds domain.ProviderCredentials, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", creds.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthBase+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.Error != "" {
		return nil, fmt.Errorf("provider oauth error: %s - %s", tr.Error, tr.ErrorDesc)
	}
	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		return nil, fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}
	return &tr, nil
}

// Identity is the provider identity resolved from an access token.
type Identity struct {
	ID     int64
	Handle string
}

// UserInfo resolves the provider identity behind an access token via the
// OIDC userinfo endpoint.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AuthBase+"/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	var body struct {
		Sub               string `json:"sub"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", domain.ErrUpstreamUnavailable)
	}
	id, err := strconv.ParseInt(body.Sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("userinfo sub %q is not numeric: %w", body.Sub, domain.ErrUpstreamUnavailable)
	}
	handle := body.PreferredUsername
	if handle == "" {
		handle = body.Name
	}
	return &Identity{ID: id, Handle: handle}, nil
}

// Profile is a provider user's public profile.
type Profile struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// GetUser fetches a user's public profile, including the account-creation
// timestamp used for age computation.
func (c *Client) GetUser(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	url := fmt.Sprintf("%s/v1/users/%d", c.UsersBase, userID)
	if err := c.getJSON(ctx, url, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetUserGroups fetches the full affiliation list with ranks, in the
// provider's own ordering.
func (c *Client) GetUserGroups(ctx context.Context, userID int64) ([]domain.Affiliation, error) {
	var body struct {
		Data []struct {
			Group struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"group"`
			Role struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/v2/users/%d/groups/roles", c.GroupsBase, userID)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	affiliations := make([]domain.Affiliation, 0, len(body.Data))
	for _, g := range body.Data {
		affiliations = append(affiliations, domain.Affiliation{
			GroupID: g.Group.ID,
			Name:    g.Group.Name,
			Rank:    g.Role.Name,
		})
	}
	return affiliations, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s returned status %d: %w", url, resp.StatusCode, domain.ErrUpstreamUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, domain.ErrUpstreamUnavailable)
	}
	return nil
}
