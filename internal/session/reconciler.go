// File: internal/session/reconciler.go
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"barberlink_backend/internal/identity"
	"barberlink_backend/internal/profile"
)

const subscriberBuffer = 16

// Reconciler observes provider session changes and pairs each identity with
// its canonical profile from the store, publishing the reconciled session to
// subscribers.
//
// Ordering is guarded by a per-identity-change sequence number: every change
// reported by the provider bumps the sequence, and a store resolution only
// publishes if its sequence is still current. A slow lookup for a superseded
// identity can therefore never overwrite the state of a newer one.
type Reconciler struct {
	provider identity.Provider
	store    profile.Store
	timeout  time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	seq         uint64
	current     Session
	diagnostics Diagnostics
	subscribers map[int]chan Session
	nextSubID   int
	unsubscribe identity.Unsubscribe
	closed      bool

	resolving sync.WaitGroup
}

// NewReconciler creates a Reconciler. store may be nil, in which case every
// session settles immediately on the provider-derived fallback profile.
func NewReconciler(provider identity.Provider, store profile.Store, timeout time.Duration, logger *zap.Logger) *Reconciler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reconciler{
		provider:    provider,
		store:       store,
		timeout:     timeout,
		logger:      logger.Named("SessionReconciler"),
		current:     Session{Status: StatusUnauthenticated},
		subscribers: make(map[int]chan Session),
	}
}

// Start attaches the reconciler to the provider's session change stream.
func (r *Reconciler) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsubscribe != nil || r.closed {
		return
	}
	r.unsubscribe = r.provider.Subscribe(r.onIdentityChange)
	r.logger.Info("Session reconciler started")
}

// Close detaches from the provider, waits for in-flight resolutions and
// closes all subscriber channels.
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	r.resolving.Wait()

	r.mu.Lock()
	for id, ch := range r.subscribers {
		close(ch)
		delete(r.subscribers, id)
	}
	r.mu.Unlock()
	r.logger.Info("Session reconciler stopped")
}

// Current returns the last published session.
func (r *Reconciler) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Diagnostics returns the current reconciliation diagnostics.
func (r *Reconciler) Diagnostics() Diagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.diagnostics
}

// Subscribe registers an observer for published sessions. The current session
// is delivered first. When the channel buffer is full the oldest update is
// dropped; observers always converge on the latest state.
func (r *Reconciler) Subscribe() (<-chan Session, identity.Unsubscribe) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Session, subscriberBuffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = ch
	ch <- r.current

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subscribers[id]; ok {
			delete(r.subscribers, id)
			close(sub)
		}
	}
}

// ApplyProfilePatch merges a partial edit into the current session's profile
// and republishes it. The merge happens under the same lock as identity
// changes, so a patch can never attach a superseded identity's profile to a
// newer one. Returns the merged profile, or nil when unauthenticated.
func (r *Reconciler) ApplyProfilePatch(patch profile.Patch) *profile.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.Identity == nil || r.current.Profile == nil {
		return nil
	}
	merged := profile.Merge(*r.current.Profile, patch)
	r.publishLocked(Session{
		Identity: r.current.Identity,
		Profile:  &merged,
		Status:   r.current.Status,
	})
	return &merged
}

// onIdentityChange is invoked by the provider, synchronously for sign-out.
func (r *Reconciler) onIdentityChange(id *identity.Session) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.seq++
	seq := r.seq

	if id == nil {
		r.diagnostics = Diagnostics{}
		r.publishLocked(Session{Status: StatusUnauthenticated})
		r.mu.Unlock()
		return
	}

	fallback := profile.Fallback(id)

	// No store, or nothing to key the lookup on: the fallback is final.
	if r.store == nil || id.Email == "" {
		r.publishLocked(Session{Identity: id, Profile: fallback, Status: StatusAuthenticated})
		r.mu.Unlock()
		return
	}

	// Publish the fallback immediately so observers never wait on the store,
	// then resolve the canonical record in the background.
	r.publishLocked(Session{Identity: id, Profile: fallback, Status: StatusResolvingProfile})
	r.resolving.Add(1)
	r.mu.Unlock()

	go r.resolve(seq, id, fallback)
}

// resolve looks up (or creates) the canonical profile and publishes the
// settled session, unless a newer identity change has superseded seq.
func (r *Reconciler) resolve(seq uint64, id *identity.Session, fallback *profile.Profile) {
	defer r.resolving.Done()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	resolved, err := r.lookupOrCreate(ctx, id, fallback)
	if err != nil {
		r.logger.Warn("Profile resolution failed, keeping fallback profile",
			zap.String("email", id.Email),
			zap.Error(err),
		)
		r.settle(seq, Session{Identity: id, Profile: fallback, Status: StatusAuthenticated}, err)
		return
	}
	r.settle(seq, Session{Identity: id, Profile: resolved, Status: StatusAuthenticated}, nil)
}

func (r *Reconciler) lookupOrCreate(ctx context.Context, id *identity.Session, fallback *profile.Profile) (*profile.Profile, error) {
	found, err := r.store.FindByEmail(ctx, id.Email)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}

	// First sign-in for this email: seed the store from the fallback.
	created, err := r.store.Create(ctx, profile.CreateRequest{
		Email: id.Email,
		Name:  fallback.Name,
		Role:  fallback.Role,
		Phone: fallback.Phone,
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("Profile record created on first sign-in", zap.String("email", id.Email))
	return created, nil
}

// settle publishes a resolved session if seq is still the latest change.
func (r *Reconciler) settle(seq uint64, s Session, syncErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || seq != r.seq {
		r.logger.Debug("Dropping stale profile resolution", zap.Uint64("seq", seq), zap.Uint64("current", r.seq))
		return
	}
	if syncErr != nil {
		r.diagnostics = Diagnostics{ProfileSyncDegraded: true, LastSyncError: syncErr.Error()}
	} else {
		r.diagnostics = Diagnostics{}
	}
	r.publishLocked(s)
}

// publishLocked updates current and fans out to subscribers. Callers hold mu.
func (r *Reconciler) publishLocked(s Session) {
	r.current = s
	for _, ch := range r.subscribers {
		select {
		case ch <- s:
		default:
			// Buffer full: drop the oldest update so the latest always lands.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}
