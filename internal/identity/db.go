package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetProfile returns (nil, nil) when no profile exists for the id.
func (d *DB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := d.Bun.NewSelect().
		Model(&profile).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *DB) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	_, err := d.Bun.NewInsert().
		Model(profile).
		On("CONFLICT (id) DO UPDATE").
		Set("full_name = EXCLUDED.full_name").
		Set("phone = EXCLUDED.phone").
		Set("is_admin = EXCLUDED.is_admin").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (d *DB) PromoteAdmin(ctx context.Context, id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("is_admin = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
