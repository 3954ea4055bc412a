package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/models"
)

func newStoreMock(t *testing.T) (*CollectionStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewCollectionStore(sqlxDB, true, nil), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestCollectionStoreGetExisting(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	campuses := []models.Campus{{ID: "miit", Name: "UniKL MIIT", Modes: map[string]models.ModeData{}}}
	raw, err := json.Marshal(campuses)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyCampuses).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))

	var loaded []models.Campus
	found, err := s.Get(context.Background(), KeyCampuses, &loaded)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded, 1)
	assert.Equal(t, "miit", loaded[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStoreGetMissing(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyUsers).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var users []models.User
	found, err := s.Get(context.Background(), KeyUsers, &users)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStorePut(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO dcms_collections").
		WithArgs(KeyUsers, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Put(context.Background(), KeyUsers, SeedUsers())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampusesSeedsOnFirstAccess(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyCampuses).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectExec("INSERT INTO dcms_collections").
		WithArgs(KeyCampuses, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	campuses, err := s.Campuses(context.Background())
	require.NoError(t, err)
	require.Len(t, campuses, 2)
	assert.Equal(t, "miit", campuses[0].ID)
	assert.Equal(t, "bis", campuses[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCampusShape(t *testing.T) {
	campuses := SeedCampuses()
	require.Len(t, campuses, 2)

	miit := campuses[0]
	odl, ok := miit.Modes["odl"]
	require.True(t, ok)
	assert.True(t, odl.Structured())
	require.Len(t, odl.Programmes, 1)
	require.Len(t, odl.Programmes[0].Courses, 2)

	// Counter-only modes carry no programme tree.
	assert.False(t, miit.Modes["mc"].Structured())
	assert.False(t, miit.Modes["others"].Structured())
}

func TestSeedActivitiesRelativeTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activities := SeedActivities(now)
	require.Len(t, activities, 3)
	assert.Equal(t, models.ActivityAnnouncement, activities[0].Type)
	assert.Equal(t, now.Add(-24*time.Hour).Format(time.RFC3339), activities[0].Timestamp)
	assert.Equal(t, now.Add(-30*time.Minute).Format(time.RFC3339), activities[2].Timestamp)
}

func TestCampusesNotSeededWhenDisabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	defer sqlxDB.Close()
	s := NewCollectionStore(sqlxDB, false, nil)

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyCampuses).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	campuses, err := s.Campuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, campuses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampusesFallBackToSeedOnCorruptBlob(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyCampuses).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte("{not json")))

	campuses, err := s.Campuses(context.Background())
	require.NoError(t, err)
	require.Len(t, campuses, 2)
	assert.Equal(t, "miit", campuses[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersFallBackToSeedOnQueryError(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyUsers).
		WillReturnError(errors.New("connection reset"))

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedUsers(), users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCorruptBlobYieldsEmptyWhenSeedingDisabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	defer sqlxDB.Close()
	s := NewCollectionStore(sqlxDB, false, nil)

	mock.ExpectQuery("SELECT data FROM dcms_collections").
		WithArgs(KeyActivities).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte("[broken")))

	activities, err := s.Activities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, activities)
	require.NoError(t, mock.ExpectationsWereMet())
}
