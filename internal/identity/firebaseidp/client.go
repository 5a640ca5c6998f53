// File: internal/identity/firebaseidp/client.go
package firebaseidp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"barberlink_backend/internal/config"
	"barberlink_backend/internal/identity"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Client implements identity.Provider against the Firebase Identity Toolkit
// REST surface. Sign-in flows use the web API key; token verification for the
// HTTP middleware stays with the Admin SDK wrapper (internal/firebase).
type Client struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
	endpoint   string

	challengeHost ChallengeHost
	codeGranter   CodeGranter

	mu      sync.Mutex
	subs    map[int]func(*identity.Session)
	nextSub int
}

var _ identity.Provider = (*Client)(nil)

// Option configures optional Client collaborators.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for Identity Toolkit calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint overrides the Identity Toolkit base URL. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithChallengeHost installs the reCAPTCHA challenge host required by phone
// verification. Without one, phone flows fail fast as unsupported.
func WithChallengeHost(h ChallengeHost) Option {
	return func(c *Client) { c.challengeHost = h }
}

// WithCodeGranter installs the authorization-code granter required by
// federated sign-in. Without one, federated flows fail fast as unsupported.
func WithCodeGranter(g CodeGranter) Option {
	return func(c *Client) { c.codeGranter = g }
}

// NewClient creates a new Identity Toolkit client.
func NewClient(cfg *config.Config, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		logger:     logger.Named("FirebaseIDP"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   defaultEndpoint,
		subs:       make(map[int]func(*identity.Session)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.RecaptchaTokenCommand != "" && c.challengeHost == nil {
		c.challengeHost = NewExecChallengeHost(cfg.RecaptchaTokenCommand)
	}
	return c
}

// Subscribe registers fn for session-change notifications.
func (c *Client) Subscribe(fn func(*identity.Session)) identity.Unsubscribe {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// emit notifies all subscribers synchronously, in registration order not
// guaranteed. Subscribers must not block.
func (c *Client) emit(sess *identity.Session) {
	c.mu.Lock()
	fns := make([]func(*identity.Session), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

// SignInWithPassword authenticates an email/password pair.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	var resp tokenResponse
	err := c.call(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	sess := c.sessionFromToken(ctx, &resp)
	c.logger.Info("Password sign-in succeeded", zap.String("subjectID", sess.SubjectID))
	c.emit(sess)
	return sess, nil
}

// RegisterWithPassword creates a new provider identity and sets its display name.
func (c *Client) RegisterWithPassword(ctx context.Context, email, password, displayName string) (*identity.Session, error) {
	var resp tokenResponse
	err := c.call(ctx, "signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		var updated tokenResponse
		err = c.call(ctx, "update", map[string]interface{}{
			"idToken":           resp.IDToken,
			"displayName":       displayName,
			"returnSecureToken": true,
		}, &updated)
		if err != nil {
			// The identity exists; surface the failure but keep the session usable.
			c.logger.Warn("Failed to set display name after sign-up", zap.Error(err))
		} else {
			resp.DisplayName = updated.DisplayName
			if updated.IDToken != "" {
				resp.IDToken = updated.IDToken
			}
			if updated.RefreshToken != "" {
				resp.RefreshToken = updated.RefreshToken
			}
		}
	}

	sess := c.sessionFromToken(ctx, &resp)
	c.logger.Info("Registration succeeded", zap.String("subjectID", sess.SubjectID))
	c.emit(sess)
	return sess, nil
}

// SignOut invalidates the local session. Subscribers observe the absent
// session before SignOut returns.
func (c *Client) SignOut(ctx context.Context) error {
	c.logger.Info("Signing out")
	c.emit(nil)
	return nil
}

// sessionFromToken converts a token response into an identity.Session,
// enriching it with account details from a best-effort lookup.
func (c *Client) sessionFromToken(ctx context.Context, resp *tokenResponse) *identity.Session {
	sess := &identity.Session{
		SubjectID:    resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		Phone:        resp.PhoneNumber,
		CreatedAt:    time.Now().UTC(),
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}

	var lookup lookupResponse
	if err := c.call(ctx, "lookup", map[string]interface{}{"idToken": resp.IDToken}, &lookup); err != nil {
		c.logger.Debug("Account lookup failed, using token fields only", zap.Error(err))
		return sess
	}
	if len(lookup.Users) == 0 {
		return sess
	}

	u := lookup.Users[0]
	if u.Email != "" {
		sess.Email = u.Email
	}
	if u.DisplayName != "" {
		sess.DisplayName = u.DisplayName
	}
	if u.PhotoURL != "" {
		sess.PhotoURL = u.PhotoURL
	}
	if u.PhoneNumber != "" {
		sess.Phone = u.PhoneNumber
	}
	if u.CreatedAt != "" {
		if millis, err := strconv.ParseInt(u.CreatedAt, 10, 64); err == nil {
			sess.CreatedAt = time.UnixMilli(millis).UTC()
		}
	}
	return sess
}

// call performs a POST against an Identity Toolkit accounts action and
// decodes the response into out. Provider failures are returned as
// identity.ProviderError carrying the upstream error code.
func (c *Client) call(ctx context.Context, action string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	url := fmt.Sprintf("%s/accounts:%s?key=%s", c.endpoint, action, c.cfg.FirebaseWebAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit %s call failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Error.Message == "" {
			return identity.NewProviderError(
				fmt.Sprintf("HTTP_%d", resp.StatusCode),
				fmt.Errorf("identity toolkit %s returned status %d", action, resp.StatusCode),
			)
		}
		code := apiErr.Error.Message
		// Messages can carry a human-readable suffix, e.g.
		// "WEAK_PASSWORD : Password should be at least 6 characters".
		if idx := strings.IndexAny(code, " :"); idx > 0 {
			code = code[:idx]
		}
		c.logger.Warn("Identity toolkit call rejected",
			zap.String("action", action),
			zap.String("code", code),
		)
		return identity.NewProviderError(code, fmt.Errorf("identity toolkit %s rejected: %s", action, apiErr.Error.Message))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return nil
}

// --- wire types ---

type tokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhoneNumber  string `json:"phoneNumber"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
		PhoneNumber string `json:"phoneNumber"`
		CreatedAt   string `json:"createdAt"`
	} `json:"users"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
