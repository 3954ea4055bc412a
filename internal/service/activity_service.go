package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type activityStore interface {
	Activities(ctx context.Context) ([]models.ActivityItem, error)
	SaveActivities(ctx context.Context, activities []models.ActivityItem) error
}

// ActivityService owns the append-only activity feed. New entries are
// prepended; edits and deletes are limited to announcement entries so the
// audit trail of content mutations stays immutable.
type ActivityService struct {
	store  activityStore
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewActivityService constructs the service.
func NewActivityService(store activityStore, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{store: store, logger: logger, now: time.Now}
}

// List returns the feed sorted newest first.
func (s *ActivityService) List(ctx context.Context) ([]models.ActivityItem, error) {
	activities, err := s.store.Activities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp > activities[j].Timestamp
	})
	return activities, nil
}

// Log prepends a new entry to the feed. A persistence failure is logged and
// swallowed: the caller's mutation already succeeded and must not be rolled
// back because the audit write failed.
func (s *ActivityService) Log(ctx context.Context, author string, activityType models.ActivityType, message, targetView string, targetParams map[string]string) models.ActivityItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.ActivityItem{
		ID:           uuid.NewString(),
		Type:         activityType,
		Message:      message,
		Timestamp:    s.now().UTC().Format(time.RFC3339),
		Author:       author,
		TargetView:   targetView,
		TargetParams: targetParams,
	}

	activities, err := s.store.Activities(ctx)
	if err != nil {
		s.logger.Warn("failed to load activities for append", zap.Error(err))
		return entry
	}

	updated := append([]models.ActivityItem{entry}, activities...)
	if err := s.store.SaveActivities(ctx, updated); err != nil {
		s.logger.Warn("failed to persist activity", zap.Error(err), zap.String("message", message))
	}
	return entry
}

// UpdateAnnouncement edits the message of an announcement entry. Non
// announcement entries are immutable.
func (s *ActivityService) UpdateAnnouncement(ctx context.Context, id, message string) (*models.ActivityItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.store.Activities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}

	for i := range activities {
		if activities[i].ID != id {
			continue
		}
		if activities[i].Type != models.ActivityAnnouncement {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only announcements can be edited")
		}
		activities[i].Message = message
		if err := s.store.SaveActivities(ctx, activities); err != nil {
			s.logger.Warn("failed to persist activity update", zap.Error(err))
		}
		return &activities[i], nil
	}
	return nil, appErrors.ErrNotFound
}

// DeleteAnnouncement removes an announcement entry from the feed.
func (s *ActivityService) DeleteAnnouncement(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.store.Activities(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}

	for i := range activities {
		if activities[i].ID != id {
			continue
		}
		if activities[i].Type != models.ActivityAnnouncement {
			return appErrors.Clone(appErrors.ErrForbidden, "only announcements can be deleted")
		}
		updated := append(activities[:i:i], activities[i+1:]...)
		if err := s.store.SaveActivities(ctx, updated); err != nil {
			s.logger.Warn("failed to persist activity delete", zap.Error(err))
		}
		return nil
	}
	return appErrors.ErrNotFound
}

// AuthorLabel decorates a username with its scope: super admins get "(HQ)",
// campus admins the short campus name. lookupName resolves a campus ID to
// its display name and may return "".
func AuthorLabel(user *models.User, lookupName func(campusID string) string) string {
	if user == nil {
		return "System"
	}
	author := user.Username
	if user.AssignedCampusID != "" {
		name := ""
		if lookupName != nil {
			name = lookupName(user.AssignedCampusID)
		}
		if name != "" {
			name = strings.TrimPrefix(name, "UniKL ")
		} else {
			name = strings.ToUpper(user.AssignedCampusID)
		}
		return author + " (" + name + ")"
	}
	if user.Role == models.RoleSuperAdmin {
		return author + " (HQ)"
	}
	return author
}
