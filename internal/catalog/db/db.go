package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListFestivals(ctx context.Context) ([]models.Festival, error) {
	var festivals []models.Festival
	err := d.Bun.NewSelect().
		Model(&festivals).
		Order("start_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return festivals, nil
}

func (d *DB) GetFestival(ctx context.Context, id string) (*models.Festival, error) {
	var festival models.Festival
	err := d.Bun.NewSelect().
		Model(&festival).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &festival, nil
}

func (d *DB) UpsertFestival(ctx context.Context, festival *models.Festival) error {
	_, err := d.Bun.NewInsert().
		Model(festival).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("location = EXCLUDED.location").
		Set("start_date = EXCLUDED.start_date").
		Set("end_date = EXCLUDED.end_date").
		Set("working_hours = EXCLUDED.working_hours").
		Set("activities = EXCLUDED.activities").
		Set("price_baisa = EXCLUDED.price_baisa").
		Set("image_url = EXCLUDED.image_url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (d *DB) DeleteFestival(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Festival)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CountFestivals(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Festival)(nil)).
		Count(ctx)
}
