package jobs

import (
	"database/sql"

	"everkeep-backend/internal/config"
	"everkeep-backend/internal/logger"
	"everkeep-backend/internal/repository/postgres"
	"everkeep-backend/internal/service"
	"everkeep-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db      *sql.DB
	store   *postgres.Store
	email   service.EmailService
	storage storage.StorageInterface
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, email service.EmailService, blobStore storage.StorageInterface, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:      db,
		store:   store,
		email:   email,
		storage: blobStore,
		config:  cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SendPendingRequestDigest()
	jr.CleanupPendingPhotos()
}
