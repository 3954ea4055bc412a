package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/models"
)

// Collection keys inside the dcms_collections table. Each key maps to one
// JSON document holding the whole collection, mirroring the dashboard's
// save-everything persistence model.
const (
	KeyCampuses   = "dcms:campuses"
	KeyUsers      = "dcms:users"
	KeyActivities = "dcms:activities"
)

const schema = `CREATE TABLE IF NOT EXISTS dcms_collections (
    key        TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// CollectionStore persists whole collections as single JSONB documents.
// With seeding enabled, a missing collection is materialized from the
// built-in seed data on first access. An unreadable document is never
// surfaced to callers: the loaders log and hand back the seed default,
// so a corrupt blob degrades to a reset instead of a dead API.
type CollectionStore struct {
	db     *sqlx.DB
	seed   bool
	logger *zap.Logger
}

// NewCollectionStore constructs the store.
func NewCollectionStore(db *sqlx.DB, seedOnEmpty bool, logger *zap.Logger) *CollectionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionStore{db: db, seed: seedOnEmpty, logger: logger}
}

// EnsureSchema creates the backing table when missing.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure collections schema: %w", err)
	}
	return nil
}

// Get unmarshals the document stored under key into dest. The second return
// value reports whether the key existed.
func (s *CollectionStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	const query = `SELECT data FROM dcms_collections WHERE key = $1`
	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load collection %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return true, nil
}

// Put replaces the document stored under key.
func (s *CollectionStore) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	const query = `INSERT INTO dcms_collections (key, data, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}

// Campuses loads the campus collection, seeding it on first access. A
// failed read or decode falls back to the seed without surfacing the error.
func (s *CollectionStore) Campuses(ctx context.Context) ([]models.Campus, error) {
	var campuses []models.Campus
	found, err := s.Get(ctx, KeyCampuses, &campuses)
	if err != nil {
		s.logger.Warn("campus collection unreadable, using seed default", zap.Error(err))
		if s.seed {
			return SeedCampuses(), nil
		}
		return []models.Campus{}, nil
	}
	if !found && s.seed {
		campuses = SeedCampuses()
		if err := s.Put(ctx, KeyCampuses, campuses); err != nil {
			s.logger.Warn("failed to persist campus seed", zap.Error(err))
		}
	}
	return campuses, nil
}

// SaveCampuses rewrites the campus collection.
func (s *CollectionStore) SaveCampuses(ctx context.Context, campuses []models.Campus) error {
	return s.Put(ctx, KeyCampuses, campuses)
}

// Users loads the user collection, seeding it on first access. A failed
// read or decode falls back to the seed without surfacing the error.
func (s *CollectionStore) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	found, err := s.Get(ctx, KeyUsers, &users)
	if err != nil {
		s.logger.Warn("user collection unreadable, using seed default", zap.Error(err))
		if s.seed {
			return SeedUsers(), nil
		}
		return []models.User{}, nil
	}
	if !found && s.seed {
		users = SeedUsers()
		if err := s.Put(ctx, KeyUsers, users); err != nil {
			s.logger.Warn("failed to persist user seed", zap.Error(err))
		}
	}
	return users, nil
}

// SaveUsers rewrites the user collection.
func (s *CollectionStore) SaveUsers(ctx context.Context, users []models.User) error {
	return s.Put(ctx, KeyUsers, users)
}

// Activities loads the activity collection, seeding it on first access. A
// failed read or decode falls back to the seed without surfacing the error.
func (s *CollectionStore) Activities(ctx context.Context) ([]models.ActivityItem, error) {
	var activities []models.ActivityItem
	found, err := s.Get(ctx, KeyActivities, &activities)
	if err != nil {
		s.logger.Warn("activity collection unreadable, using seed default", zap.Error(err))
		if s.seed {
			return SeedActivities(time.Now()), nil
		}
		return []models.ActivityItem{}, nil
	}
	if !found && s.seed {
		activities = SeedActivities(time.Now())
		if err := s.Put(ctx, KeyActivities, activities); err != nil {
			s.logger.Warn("failed to persist activity seed", zap.Error(err))
		}
	}
	return activities, nil
}

// SaveActivities rewrites the activity collection.
func (s *CollectionStore) SaveActivities(ctx context.Context, activities []models.ActivityItem) error {
	return s.Put(ctx, KeyActivities, activities)
}
