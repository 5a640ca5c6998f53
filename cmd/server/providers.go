// File: cmd/server/providers.go
package main

import (
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"barberlink_backend/internal/config"
	"barberlink_backend/internal/identity"
	"barberlink_backend/internal/identity/firebaseidp"
	"barberlink_backend/internal/platform/database"
	"barberlink_backend/internal/profile"
	"barberlink_backend/internal/session"
)

// provideIdentityProvider constructs the Identity Toolkit client as the
// identity.Provider implementation.
func provideIdentityProvider(cfg *config.Config, logger *zap.Logger) identity.Provider {
	return firebaseidp.NewClient(cfg, logger)
}

// provideReconciler builds the session reconciler over the identity provider
// and the profile store.
func provideReconciler(
	provider identity.Provider,
	store profile.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *session.Reconciler {
	return session.NewReconciler(provider, store, cfg.ProfileStoreTimeout, logger)
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
