package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/secure-notes-api/model"
)

// CleanupExpiredTokens removes blacklist entries whose tokens have expired.
// An expired token fails validation on its own; the row only exists to block
// tokens that are still within their lifetime.
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"

	result := m.db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", result.RowsAffected))
}

// ScanStorageIntegrity walks all note records and verifies their stored
// object still exists. Missing files are reported through the job log so
// operators can restore or remove the affected notes.
func (m *CronManager) ScanStorageIntegrity() {
	jobName := "storage_integrity_scan"
	ctx := context.Background()

	var notes []model.Note
	if err := m.db.Select("id", "storage_key", "title").Find(&notes).Error; err != nil {
		m.logJobError(jobName, err)
		return
	}

	missing := 0
	for _, note := range notes {
		exists, err := m.backend.Exists(ctx, note.StorageKey)
		if err != nil {
			m.logJobError(jobName, fmt.Errorf("failed to check note %d: %w", note.ID, err))
			return
		}
		if !exists {
			missing++
			m.db.Create(&model.CronJobLog{
				JobName:   jobName,
				Status:    "alert",
				StartedAt: time.Now(),
				Message:   fmt.Sprintf("Note %d (%q) has no stored object under key %s", note.ID, note.Title, note.StorageKey),
			})
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Scanned %d notes, %d missing objects", len(notes), missing))
}

// CleanupOldLogs prunes audit and cron logs older than 90 days
func (m *CronManager) CleanupOldLogs() {
	jobName := "cleanup_old_logs"
	cutoff := time.Now().AddDate(0, 0, -90)

	auditResult := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.AdminAuditLog{})
	if auditResult.Error != nil {
		m.logJobError(jobName, auditResult.Error)
		return
	}

	cronResult := m.db.Unscoped().
		Where("created_at < ? AND status != ?", cutoff, "alert").
		Delete(&model.CronJobLog{})
	if cronResult.Error != nil {
		m.logJobError(jobName, cronResult.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d audit logs and %d cron logs",
		auditResult.RowsAffected, cronResult.RowsAffected))
}
