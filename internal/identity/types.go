// File: internal/identity/types.go
package identity

import (
	"context"
	"fmt"
	"time"
)

// Session is the provider-native authentication session observed by the core.
// It exists only while the provider considers the caller signed in and is
// invalidated by explicit sign-out or provider-side expiry.
type Session struct {
	SubjectID   string
	Email       string
	DisplayName string
	PhotoURL    string
	Phone       string
	CreatedAt   time.Time

	// Provider tokens, carried for downstream API calls. Opaque to the core.
	IDToken      string
	RefreshToken string
}

// ProviderKind identifies a federated identity provider.
type ProviderKind string

const (
	ProviderGoogle ProviderKind = "google.com"
)

// VerificationHandle references an in-flight phone verification challenge.
type VerificationHandle struct {
	ID        string
	Phone     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the handle can no longer be confirmed.
func (h *VerificationHandle) Expired(now time.Time) bool {
	return !h.ExpiresAt.IsZero() && now.After(h.ExpiresAt)
}

// Unsubscribe detaches a session-change subscription.
type Unsubscribe func()

// Provider is the capability interface over an external identity provider.
// Implementations authenticate credentials, maintain the provider-native
// session and emit change notifications. Sign-in failures carry a provider
// error code; callers translate these, they never interpret or retry them.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	RegisterWithPassword(ctx context.Context, email, password, displayName string) (*Session, error)
	SignInFederated(ctx context.Context, kind ProviderKind) (*Session, error)
	BeginPhoneVerification(ctx context.Context, phoneNumber string) (*VerificationHandle, error)
	ConfirmPhoneVerification(ctx context.Context, handle *VerificationHandle, code string) (*Session, error)
	SignOut(ctx context.Context) error

	// Subscribe registers fn for session-change notifications. fn receives the
	// new session, or nil when the caller signed out. Implementations must
	// invoke fn synchronously from SignOut so that a returned SignOut implies
	// subscribers have already observed the absent session.
	Subscribe(fn func(*Session)) Unsubscribe
}

// Provider error codes shared across adapters. Adapters may also surface
// provider-specific codes (e.g. Identity Toolkit message strings) verbatim.
const (
	CodeUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
)

// ProviderError wraps a provider-native failure with its error code.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity provider error %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("identity provider error %s", e.Code)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError from a code and an optional cause.
func NewProviderError(code string, err error) *ProviderError {
	return &ProviderError{Code: code, Err: err}
}
