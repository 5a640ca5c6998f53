// File: internal/auth/facade.go
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/config"
	"barberlink_backend/internal/identity"
	"barberlink_backend/internal/profile"
	"barberlink_backend/internal/session"
)

// Facade is the single entry point for authentication flows. It drives the
// identity provider, seeds the profile store on registration, and exposes the
// reconciled session stream. All provider failures leave through Translate so
// callers only ever see classified auth errors.
type Facade struct {
	provider   identity.Provider
	store      profile.Store
	reconciler *session.Reconciler
	cfg        *config.Config
	logger     *zap.Logger

	mu      sync.Mutex
	handles map[string]*identity.VerificationHandle
}

// NewFacade creates the auth facade. store may be nil (degraded mode); a
// registration with an explicit non-client role then reports partial
// registration, since the role cannot be persisted.
func NewFacade(
	provider identity.Provider,
	store profile.Store,
	reconciler *session.Reconciler,
	cfg *config.Config,
	logger *zap.Logger,
) *Facade {
	return &Facade{
		provider:   provider,
		store:      store,
		reconciler: reconciler,
		cfg:        cfg,
		logger:     logger.Named("AuthFacade"),
		handles:    make(map[string]*identity.VerificationHandle),
	}
}

// Login signs in with email and password.
func (f *Facade) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	id, err := f.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		authErr := Translate(err)
		f.logger.Warn("Login failed", zap.String("email", email), zap.String("kind", string(authErr.Kind)), zap.Error(err))
		return nil, authErr
	}
	f.logger.Info("Login succeeded", zap.String("subjectID", id.SubjectID))
	return id, nil
}

// RegisterInput carries the fields collected at registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Phone    string
}

// Register creates the provider account and seeds the canonical profile with
// the explicitly chosen role. If the provider account is created but the role
// cannot be persisted, either because the profile seed fails or because no
// store is configured, the user is left signed in and a
// KindPartialRegistration error is returned: the account exists, the session
// is live, only the role/profile setup is incomplete.
func (f *Facade) Register(ctx context.Context, in RegisterInput) (*identity.Session, error) {
	role := in.Role
	if role == "" {
		role = common.RoleClient
	}
	if !common.IsValidRole(role) {
		return nil, NewError(KindUnknown, fmt.Errorf("invalid role %q", role))
	}

	id, err := f.provider.RegisterWithPassword(ctx, strings.TrimSpace(in.Email), in.Password, in.Name)
	if err != nil {
		authErr := Translate(err)
		f.logger.Warn("Registration failed", zap.String("email", in.Email), zap.String("kind", string(authErr.Kind)), zap.Error(err))
		return nil, authErr
	}
	f.logger.Info("Provider account created", zap.String("subjectID", id.SubjectID), zap.String("role", role))

	if f.store == nil {
		if role != common.RoleClient {
			f.logger.Warn("Profile store unavailable, explicit role not persisted",
				zap.String("email", in.Email), zap.String("role", role))
			return id, NewError(KindPartialRegistration, fmt.Errorf("profile store unavailable, role %q not persisted", role))
		}
		return id, nil
	}

	_, err = f.store.Create(ctx, profile.CreateRequest{
		Email: id.Email,
		Name:  in.Name,
		Role:  role,
		Phone: in.Phone,
	})
	if err != nil {
		f.logger.Error("Profile seed failed after provider account creation",
			zap.String("email", in.Email), zap.Error(err))
		return id, NewError(KindPartialRegistration, err)
	}
	return id, nil
}

// LoginWithGoogle runs the federated Google sign-in flow.
func (f *Facade) LoginWithGoogle(ctx context.Context) (*identity.Session, error) {
	id, err := f.provider.SignInFederated(ctx, identity.ProviderGoogle)
	if err != nil {
		authErr := Translate(err)
		f.logger.Warn("Federated login failed", zap.String("kind", string(authErr.Kind)), zap.Error(err))
		return nil, authErr
	}
	f.logger.Info("Federated login succeeded", zap.String("subjectID", id.SubjectID))
	return id, nil
}

// BeginPhoneLogin normalizes the phone number and starts a verification
// challenge. The returned handle ID is the caller's reference for
// ConfirmPhoneLogin.
func (f *Facade) BeginPhoneLogin(ctx context.Context, phoneNumber string) (*identity.VerificationHandle, error) {
	normalized, err := f.normalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	handle, err := f.provider.BeginPhoneVerification(ctx, normalized)
	if err != nil {
		authErr := Translate(err)
		f.logger.Warn("Phone verification start failed", zap.String("phone", normalized), zap.String("kind", string(authErr.Kind)), zap.Error(err))
		return nil, authErr
	}

	f.mu.Lock()
	f.handles[handle.ID] = handle
	f.mu.Unlock()

	f.logger.Info("Phone verification started", zap.String("phone", normalized), zap.Time("expiresAt", handle.ExpiresAt))
	return handle, nil
}

// ConfirmPhoneLogin completes a phone verification challenge. The handle is
// consumed whether or not confirmation succeeds with a definitive answer; an
// unknown or expired handle maps to KindInvalidVerificationCode.
func (f *Facade) ConfirmPhoneLogin(ctx context.Context, handleID, code string) (*identity.Session, error) {
	f.mu.Lock()
	handle, ok := f.handles[handleID]
	f.mu.Unlock()
	if !ok {
		return nil, NewError(KindInvalidVerificationCode, fmt.Errorf("unknown verification handle %q", handleID))
	}

	id, err := f.provider.ConfirmPhoneVerification(ctx, handle, strings.TrimSpace(code))
	if err != nil {
		authErr := Translate(err)
		// A wrong code leaves the handle live for a retry; anything else
		// (expiry, quota) consumes it.
		if authErr.Kind != KindInvalidVerificationCode || handle.Expired(time.Now()) {
			f.dropHandle(handleID)
		}
		f.logger.Warn("Phone verification confirm failed", zap.String("kind", string(authErr.Kind)), zap.Error(err))
		return nil, authErr
	}

	f.dropHandle(handleID)
	f.logger.Info("Phone login succeeded", zap.String("subjectID", id.SubjectID))
	return id, nil
}

// Logout signs the user out. The provider notifies subscribers synchronously,
// so by the time Logout returns the reconciled session is unauthenticated.
func (f *Facade) Logout(ctx context.Context) error {
	if err := f.provider.SignOut(ctx); err != nil {
		return Translate(err)
	}
	f.logger.Info("Logout completed")
	return nil
}

// PatchProfile applies a partial edit to the current session's profile and
// republishes it. Edits are session-local; the canonical record is owned by
// the backend. The merge is atomic with respect to identity changes.
func (f *Facade) PatchProfile(patch profile.Patch) (*profile.Profile, error) {
	merged := f.reconciler.ApplyProfilePatch(patch)
	if merged == nil {
		return nil, NewError(KindInvalidCredential, fmt.Errorf("no active session"))
	}
	return merged, nil
}

// Current returns the latest reconciled session.
func (f *Facade) Current() session.Session {
	return f.reconciler.Current()
}

// Subscribe exposes the reconciled session stream.
func (f *Facade) Subscribe() (<-chan session.Session, identity.Unsubscribe) {
	return f.reconciler.Subscribe()
}

// Diagnostics returns reconciliation diagnostics.
func (f *Facade) Diagnostics() session.Diagnostics {
	return f.reconciler.Diagnostics()
}

// SweepExpiredHandles drops verification handles past their expiry. Returns
// the number removed.
func (f *Facade) SweepExpiredHandles() int {
	now := time.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := 0
	for id, h := range f.handles {
		if h.Expired(now) {
			delete(f.handles, id)
			removed++
		}
	}
	if removed > 0 {
		f.logger.Info("Swept expired verification handles", zap.Int("removed", removed))
	}
	return removed
}

func (f *Facade) dropHandle(id string) {
	f.mu.Lock()
	delete(f.handles, id)
	f.mu.Unlock()
}

// normalizePhone produces an E.164 number, applying the configured default
// country code to bare national numbers.
func (f *Facade) normalizePhone(raw string) (string, error) {
	var digits strings.Builder
	hasPlus := false
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			hasPlus = true
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separators are ignored
		default:
			return "", NewError(KindInvalidPhoneNumber, fmt.Errorf("unexpected character %q in phone number", r))
		}
	}

	number := digits.String()
	if number == "" {
		return "", NewError(KindInvalidPhoneNumber, fmt.Errorf("empty phone number"))
	}

	if !hasPlus {
		prefix := strings.TrimPrefix(f.cfg.DefaultPhoneCountryCode, "+")
		number = prefix + number
	}
	if len(number) < 8 || len(number) > 15 {
		return "", NewError(KindInvalidPhoneNumber, fmt.Errorf("phone number %q is not a valid E.164 number", "+"+number))
	}
	return "+" + number, nil
}
