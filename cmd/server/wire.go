// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"barberlink_backend/internal/app"
	"barberlink_backend/internal/auth"
	"barberlink_backend/internal/config"
	"barberlink_backend/internal/firebase"
	"barberlink_backend/internal/jobs"
	"barberlink_backend/internal/platform/database"
	"barberlink_backend/internal/platform/logger"
	"barberlink_backend/internal/profile"
	"barberlink_backend/internal/shop"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Firebase Admin (token verification, revocation)
		firebase.NewService,

		// Identity provider and session core
		provideIdentityProvider,
		profile.NewStoreFromConfig,
		provideReconciler,
		auth.NewFacade,

		// Profile module (server side of the store contract)
		profile.NewGORMRepository,
		profile.NewService,
		profile.NewHandler,

		// Shop module
		shop.NewGORMRepository,
		shop.NewService,
		shop.NewHandler,

		// Jobs
		jobs.NewVerificationSweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
