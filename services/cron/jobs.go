package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/utils/auth"
)

// CleanupTokenBlacklist removes revoked tokens whose expiry has passed.
// Expired tokens fail validation on their own, so the blacklist rows
// only need to live as long as the tokens do.
func (m *CronManager) CleanupTokenBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_token_blacklist"

	blacklist := auth.NewBlacklistService(m.db)
	removed, err := blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge expired tokens: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", removed))
}

// CleanupJobLogs trims cron job logs older than 30 days
func (m *CronManager) CleanupJobLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_job_logs"
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.WithContext(ctx).
		Unscoped().
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to trim job logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d job log entries", result.RowsAffected))
}
