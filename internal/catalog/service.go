// Package catalog manages the festival listings. Reads degrade to the
// built-in seed list; writes propagate typed failures.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/models"
)

type Store interface {
	ListFestivals(ctx context.Context) ([]models.Festival, error)
	GetFestival(ctx context.Context, id string) (*models.Festival, error)
	UpsertFestival(ctx context.Context, festival *models.Festival) error
	DeleteFestival(ctx context.Context, id string) error
	CountFestivals(ctx context.Context) (int, error)
}

type Service struct {
	store  Store
	logger *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// List returns all festivals ordered by start date ascending. A store failure
// or an empty store falls back to the seed list so the catalog is never blank.
func (s *Service) List(ctx context.Context) []models.Festival {
	festivals, err := s.store.ListFestivals(ctx)
	if err != nil {
		s.logger.Error("CATALOG", fmt.Sprintf("festival list failed, serving seed list: %v", err))
		return SeedFestivals()
	}
	if len(festivals) == 0 {
		return SeedFestivals()
	}
	return festivals
}

// EnsureSeeded persists the seed list when the store is empty, making it the
// durable source of truth. Called from the admin listing path.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	count, err := s.store.CountFestivals(ctx)
	if err != nil {
		return &errs.TransientIOError{Op: "catalog.count", Err: err}
	}
	if count > 0 {
		return nil
	}
	for _, festival := range SeedFestivals() {
		f := festival
		if err := s.store.UpsertFestival(ctx, &f); err != nil {
			return &errs.TransientIOError{Op: "catalog.seed", Err: err}
		}
	}
	s.logger.Info("CATALOG", "seed festivals persisted to empty store")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Festival, error) {
	festival, err := s.store.GetFestival(ctx, id)
	if err != nil {
		return nil, &errs.TransientIOError{Op: "catalog.get", Err: err}
	}
	return festival, nil
}

// Save validates and upserts a festival. A new record gets a generated id.
func (s *Service) Save(ctx context.Context, festival *models.Festival) error {
	if err := validate(festival); err != nil {
		return err
	}

	now := time.Now().UTC()
	if festival.ID == "" {
		festival.ID = uuid.NewString()
	}
	// An update whose id turns out to be new still inserts a row, so the
	// creation time must never go in as the zero value.
	if festival.CreatedAt.IsZero() {
		festival.CreatedAt = now
	}
	festival.UpdatedAt = now
	if len(festival.Activities) == 0 {
		festival.Activities = []string{DefaultActivity}
	}

	if err := s.store.UpsertFestival(ctx, festival); err != nil {
		return &errs.TransientIOError{Op: "catalog.save", Err: err}
	}
	s.logger.LogDatabase("UPSERT", "festivals", festival.ID)
	return nil
}

// Delete removes a festival by id. Existing tickets keep their denormalized
// festival name, so no cascade is needed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &errs.ValidationError{Field: "id", Reason: "required"}
	}
	if err := s.store.DeleteFestival(ctx, id); err != nil {
		return &errs.TransientIOError{Op: "catalog.delete", Err: err}
	}
	s.logger.LogDatabase("DELETE", "festivals", id)
	return nil
}

func validate(f *models.Festival) error {
	required := []struct {
		field string
		value string
	}{
		{"name", f.Name},
		{"description", f.Description},
		{"location", f.Location},
		{"start_date", f.StartDate},
		{"end_date", f.EndDate},
		{"working_hours", f.WorkingHours},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &errs.ValidationError{Field: r.field, Reason: "required"}
		}
	}
	if f.PriceBaisa < 0 {
		return &errs.ValidationError{Field: "price_baisa", Reason: "must not be negative"}
	}
	return nil
}

// ParseActivities splits a free-text activities field on Latin and Arabic
// commas, trims entries and drops empties. When nothing remains it falls back
// to the single default placeholder entry.
func ParseActivities(raw string) []string {
	normalized := strings.ReplaceAll(raw, "،", ",")
	var activities []string
	for _, part := range strings.Split(normalized, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			activities = append(activities, trimmed)
		}
	}
	if len(activities) == 0 {
		return []string{DefaultActivity}
	}
	return activities
}
