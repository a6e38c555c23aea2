package authhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/google/uuid"
)

// Provider talks to the hosted auth service over its REST surface. It holds
// the bearer token of the session it represents; GetSession resolves that
// token to a user, SignOut revokes it. Auth-state changes pushed by the auth
// service (webhooks, admin revocations) are fed in through Notify and fan
// out on the Events channel.
type Provider struct {
	baseURL string
	apiKey  string
	token   string
	client  *http.Client
	events  chan auth.Event
}

func NewProvider(baseURL, apiKey, token string) *Provider {
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		token:   token,
		// Timeout prevents hanging calls to the auth backend.
		client: &http.Client{Timeout: 10 * time.Second},
		events: make(chan auth.Event, 16),
	}
}

// GetSession resolves the held token to the current user. A 401/404 means
// no session (nil, nil); other failures are provider errors.
func (p *Provider) GetSession(ctx context.Context) (*auth.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("auth service error: status %s", resp.Status)
	}

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	id, err := uuid.Parse(body.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service returned invalid user id %q", body.ID)
	}
	return &auth.User{ID: id, Email: body.Email}, nil
}

// SignOut revokes the held token remotely.
func (p *Provider) SignOut(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return domainErr.ErrInvalidToken
	}
	return nil
}

// Events is the auth-state change subscription consumed by the session
// manager.
func (p *Provider) Events() <-chan auth.Event { return p.events }

// Notify feeds an auth-state change into the subscription. The transport
// layer calls this when the auth service reports a change. Non-blocking: a
// full channel drops the event rather than stalling the caller; the session
// manager re-resolves on the next event anyway.
func (p *Provider) Notify(ev auth.Event) {
	select {
	case p.events <- ev:
	default:
	}
}

// Close shuts the subscription down.
func (p *Provider) Close() { close(p.events) }
