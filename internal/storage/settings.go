package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ds0903/post-bot/internal/model"
)

// SettingsRepo persists the single-row spam-protection configuration.
type SettingsRepo struct {
	db *sqlx.DB
}

// Get returns the current spam settings. The row is seeded by the initial
// migration, so a missing row is a deployment fault, not a soft miss.
func (r *SettingsRepo) Get(ctx context.Context) (model.SpamSettings, error) {
	var s model.SpamSettings
	err := r.db.GetContext(ctx, &s, `
		SELECT enabled, delay_minutes
		FROM spam_settings
		WHERE id = 1`)
	if err != nil {
		return model.SpamSettings{}, fmt.Errorf("get spam settings: %w", err)
	}
	return s, nil
}

// SetEnabled toggles spam protection.
func (r *SettingsRepo) SetEnabled(ctx context.Context, enabled bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE spam_settings
		SET enabled = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`, enabled)
	if err != nil {
		return fmt.Errorf("set spam enabled: %w", err)
	}
	return nil
}

// SetDelayMinutes updates the minimum interval between submissions.
// The valid range is enforced by the table constraint; callers validate
// input before reaching here to report a friendly message.
func (r *SettingsRepo) SetDelayMinutes(ctx context.Context, minutes int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE spam_settings
		SET delay_minutes = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`, minutes)
	if err != nil {
		return fmt.Errorf("set spam delay: %w", err)
	}
	return nil
}
