// File: internal/profile/http_store.go
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"barberlink_backend/internal/config"
)

// HTTPStore implements Store against the profile backend's HTTP contract:
// GET /api/v1/profiles?email=<e> returning a 0- or 1-element array, and
// POST /api/v1/profiles returning the created (or adopted) profile.
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Store = (*HTTPStore)(nil)

// NewHTTPStore creates a Store client for the configured backend.
func NewHTTPStore(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("ProfileStore"),
	}
}

// NewStoreFromConfig returns the configured Store, or nil when no endpoint is
// configured. A nil store is the documented degraded mode: the session core
// then runs on provider-derived fallback profiles only.
func NewStoreFromConfig(cfg *config.Config, logger *zap.Logger) Store {
	if strings.TrimSpace(cfg.ProfileStoreBaseURL) == "" {
		logger.Warn("PROFILE_STORE_BASE_URL is not configured. Sessions will use provider-derived fallback profiles only.")
		return nil
	}
	return NewHTTPStore(cfg.ProfileStoreBaseURL, cfg.ProfileStoreTimeout, logger)
}

// FindByEmail performs the keyed point lookup.
func (s *HTTPStore) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/profiles?email=%s", s.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile lookup request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup returned status %d", resp.StatusCode)
	}

	var profiles []Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profile lookup response: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("Profile resolved from store", zap.String("email", email))
	return &profiles[0], nil
}

// Create creates (or adopts) a profile record.
func (s *HTTPStore) Create(ctx context.Context, createReq CreateRequest) (*Profile, error) {
	body, err := json.Marshal(createReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile create request: %w", err)
	}

	endpoint := s.baseURL + "/api/v1/profiles"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build profile create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile create failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile create returned status %d", resp.StatusCode)
	}

	var created Profile
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode profile create response: %w", err)
	}

	s.logger.Info("Profile created in store",
		zap.String("email", created.Email),
		zap.String("role", created.Role),
	)
	return &created, nil
}
