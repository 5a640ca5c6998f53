// File: internal/session/session.go
package session

import (
	"barberlink_backend/internal/identity"
	"barberlink_backend/internal/profile"
)

// Status describes how far reconciliation has progressed for the current
// identity.
type Status string

const (
	// StatusUnauthenticated means no provider session exists. Identity and
	// Profile are nil.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusResolvingProfile means a provider session exists and the published
	// profile is a provider-derived fallback while the canonical record is
	// being resolved.
	StatusResolvingProfile Status = "resolving_profile"
	// StatusAuthenticated means reconciliation has settled. The profile is the
	// canonical store record, or the fallback when the store is unavailable.
	StatusAuthenticated Status = "authenticated"
)

// Session is the reconciled view published to observers: the provider
// identity paired with the application profile. Identity and Profile are
// non-nil exactly when Status is not StatusUnauthenticated.
type Session struct {
	Identity *identity.Session
	Profile  *profile.Profile
	Status   Status
}

// Authenticated reports whether a provider identity is present.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Diagnostics reports non-fatal reconciliation conditions. A degraded sync
// means the published profile is a fallback because the store lookup or
// create failed; the session itself remains valid.
type Diagnostics struct {
	ProfileSyncDegraded bool
	LastSyncError       string
}
