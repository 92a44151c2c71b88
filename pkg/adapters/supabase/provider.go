// Package supabase verifies bearer tokens against the Supabase auth API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// Defaults for the verified-token cache.
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = time.Minute
)

// Provider implements ports.IdentityProvider.
type Provider struct {
	baseURL string
	anonKey string
	client  *http.Client
	cache   *expirable.LRU[string, domain.Identity]
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithCache sizes the verified-token cache. A zero ttl disables expiry.
func WithCache(size int, ttl time.Duration) Option {
	return func(p *Provider) {
		p.cache = expirable.NewLRU[string, domain.Identity](size, nil, ttl)
	}
}

// New creates a provider for the project at baseURL.
func New(baseURL, anonKey string, opts ...Option) *Provider {
	p := &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   expirable.NewLRU[string, domain.Identity](DefaultCacheSize, nil, DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

// Verify resolves the token to an identity. Rejected tokens yield domain.ErrUnauthorized.
func (p *Provider) Verify(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	if id, ok := p.cache.Get(token); ok {
		return id, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if p.anonKey != "" {
		req.Header.Set("apikey", p.anonKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Identity{}, domain.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return domain.Identity{}, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	id := domain.Identity{UserID: user.ID, Email: user.Email, Role: user.AppMetadata.Role}
	if id.Role == "" {
		id.Role = domain.RoleCustomer
	}
	p.cache.Add(token, id)
	return id, nil
}
