package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type mockActivityStore struct {
	activities []models.ActivityItem
	loadErr    error
	saveErr    error
	saves      int
}

func (m *mockActivityStore) Activities(ctx context.Context) ([]models.ActivityItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]models.ActivityItem, len(m.activities))
	copy(out, m.activities)
	return out, nil
}

func (m *mockActivityStore) SaveActivities(ctx context.Context, activities []models.ActivityItem) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.activities = activities
	return nil
}

func TestLogPrependsNewestFirst(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "old", Type: models.ActivityUpdate, Message: "earlier", Timestamp: "2025-01-01T00:00:00Z"},
	}}
	svc := NewActivityService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	entry := svc.Log(context.Background(), "super_admin (HQ)", models.ActivityCreate, "Added course IRL60203", "", nil)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2025-06-01T12:00:00Z", entry.Timestamp)
	require.Len(t, store.activities, 2)
	assert.Equal(t, entry.ID, store.activities[0].ID)
	assert.Equal(t, "old", store.activities[1].ID)
}

func TestLogSwallowsPersistFailure(t *testing.T) {
	store := &mockActivityStore{saveErr: errors.New("disk full")}
	svc := NewActivityService(store, nil)

	entry := svc.Log(context.Background(), "System", models.ActivityAnnouncement, "maintenance window", "", nil)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 1, store.saves)
}

func TestListSortsByTimestampDescending(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "a", Timestamp: "2025-03-01T00:00:00Z"},
		{ID: "b", Timestamp: "2025-03-03T00:00:00Z"},
		{ID: "c", Timestamp: "2025-03-02T00:00:00Z"},
	}}
	svc := NewActivityService(store, nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	assert.Equal(t, "a", list[2].ID)
}

func TestUpdateAnnouncement(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "ann-1", Type: models.ActivityAnnouncement, Message: "old text"},
	}}
	svc := NewActivityService(store, nil)

	updated, err := svc.UpdateAnnouncement(context.Background(), "ann-1", "new text")
	require.NoError(t, err)
	assert.Equal(t, "new text", updated.Message)
	assert.Equal(t, "new text", store.activities[0].Message)
}

func TestUpdateRejectsNonAnnouncement(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "act-1", Type: models.ActivityCreate, Message: "Added course"},
	}}
	svc := NewActivityService(store, nil)

	_, err := svc.UpdateAnnouncement(context.Background(), "act-1", "tampered")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "Added course", store.activities[0].Message)
}

func TestDeleteAnnouncement(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "ann-1", Type: models.ActivityAnnouncement},
		{ID: "act-1", Type: models.ActivityUpdate},
	}}
	svc := NewActivityService(store, nil)

	require.NoError(t, svc.DeleteAnnouncement(context.Background(), "ann-1"))
	require.Len(t, store.activities, 1)
	assert.Equal(t, "act-1", store.activities[0].ID)
}

func TestDeleteRejectsNonAnnouncement(t *testing.T) {
	store := &mockActivityStore{activities: []models.ActivityItem{
		{ID: "act-1", Type: models.ActivityDelete},
	}}
	svc := NewActivityService(store, nil)

	err := svc.DeleteAnnouncement(context.Background(), "act-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Len(t, store.activities, 1)
}

func TestDeleteUnknownActivity(t *testing.T) {
	svc := NewActivityService(&mockActivityStore{}, nil)

	err := svc.DeleteAnnouncement(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAuthorLabel(t *testing.T) {
	lookup := func(id string) string {
		if id == "miit" {
			return "UniKL MIIT"
		}
		return ""
	}

	assert.Equal(t, "System", AuthorLabel(nil, lookup))
	assert.Equal(t, "super_admin (HQ)", AuthorLabel(&models.User{Username: "super_admin", Role: models.RoleSuperAdmin}, lookup))
	assert.Equal(t, "miit_admin (MIIT)", AuthorLabel(&models.User{Username: "miit_admin", Role: models.RoleCampusAdmin, AssignedCampusID: "miit"}, lookup))
	// Unknown campus falls back to the uppercased ID.
	assert.Equal(t, "gone_admin (GONE)", AuthorLabel(&models.User{Username: "gone_admin", Role: models.RoleCampusAdmin, AssignedCampusID: "gone"}, lookup))
}
