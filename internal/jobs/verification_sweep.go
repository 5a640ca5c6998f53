// File: internal/jobs/verification_sweep.go
package jobs

import (
	"fmt"
	"time"

	"barberlink_backend/internal/auth"
	"barberlink_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// VerificationSweepJob periodically drops expired phone verification handles
// so abandoned challenges don't accumulate.
type VerificationSweepJob struct {
	facade        *auth.Facade
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewVerificationSweepJob creates a new VerificationSweepJob.
func NewVerificationSweepJob(
	facade *auth.Facade,
	logger *zap.Logger,
	cfg *config.Config,
) *VerificationSweepJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &VerificationSweepJob{
		facade:        facade,
		logger:        logger.Named("VerificationSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *VerificationSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.VerificationSweepSchedule // e.g., "@every 5m"
	if jobSpec == "" {
		j.logger.Warn("Verification sweep schedule not defined (VERIFICATION_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule verification sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Verification sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *VerificationSweepJob) runJob() {
	removed := j.facade.SweepExpiredHandles()
	if removed > 0 {
		j.logger.Info("Verification sweep run completed", zap.Int("handles_removed", removed))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *VerificationSweepJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping verification sweep scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Verification sweep scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Verification sweep scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
