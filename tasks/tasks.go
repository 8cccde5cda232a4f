package tasks

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/services/draft"
	"github.com/lendfast/appform/utils/logger"
)

// staleUploadAge is how long a leftover upload may sit in the upload
// directory before the cleanup job removes it.
const staleUploadAge = 24 * time.Hour

// FlushDrafts writes every pending autosave draft in Redis through to
// the application store. The debounced flush normally handles this;
// the sweep catches drafts orphaned by a restart.
func FlushDrafts() error {
	ctx := context.Background()
	store := draft.NewStore()

	ids, err := store.SweepKeys(ctx)
	if err != nil {
		logger.Errorf("FlushDrafts: %v", err)
		return err
	}

	for _, id := range ids {
		if err := store.Flush(ctx, id); err != nil {
			logger.WithFields(logger.Fields{
				"ApplicationID": id,
			}).Errorf("FlushDrafts: %v", err)
		}
	}

	return nil
}

// CleanUploadDir removes stale files from the temporary upload directory.
func CleanUploadDir() error {
	dir := config.ServerConfig().UploadDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Errorf("CleanUploadDir: %v", err)
		return err
	}

	cutoff := time.Now().Add(-staleUploadAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			logger.WithFields(logger.Fields{
				"File": entry.Name(),
			}).Errorf("CleanUploadDir: %v", err)
		}
	}

	return nil
}

// StartCronJobs registers and starts the background jobs
func StartCronJobs() {
	// Use the system's local timezone instead of hardcoded UTC to prevent timezone conflicts
	scheduler := gocron.NewScheduler(time.Local)

	// Recover drafts left behind by a previous run
	err := FlushDrafts()
	if err != nil {
		logger.Errorf("StartCronJobs for FlushDrafts: %v", err)
	}

	// Sweep pending drafts using the configured interval
	_, err = scheduler.Every(config.DraftConfig().SweepInterval).Do(FlushDrafts)
	if err != nil {
		logger.Errorf("StartCronJobs for FlushDrafts: %v", err)
	}

	// Clean the upload directory every 6 hours
	_, err = scheduler.Every(6).Hours().Do(CleanUploadDir)
	if err != nil {
		logger.Errorf("StartCronJobs for CleanUploadDir: %v", err)
	}

	scheduler.StartAsync()
}
