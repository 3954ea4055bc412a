package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type campusStore interface {
	Campuses(ctx context.Context) ([]models.Campus, error)
	SaveCampuses(ctx context.Context, campuses []models.Campus) error
}

type activityLogger interface {
	Log(ctx context.Context, author string, activityType models.ActivityType, message, targetView string, targetParams map[string]string) models.ActivityItem
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// DashboardCachePattern matches every cached dashboard payload. Content
// mutations invalidate it wholesale rather than tracking which views a
// change affects.
const DashboardCachePattern = "dcms:dashboard:*"

// ContentService owns the campus content tree and every mutation on it.
// Mutations run the same pipeline the dashboard does: load the collection,
// apply the change in memory, write the whole collection back, record an
// activity. Persistence failures are logged and swallowed so the caller
// still sees the mutated state.
type ContentService struct {
	store      campusStore
	activities activityLogger
	cache      cacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger

	mu sync.Mutex
}

// NewContentService constructs the content service.
func NewContentService(store campusStore, activities activityLogger, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContentService{
		store:      store,
		activities: activities,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// ListCampuses returns the full campus tree.
func (s *ContentService) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	campuses, err := s.store.Campuses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campuses")
	}
	return campuses, nil
}

// GetCampus returns one campus by ID.
func (s *ContentService) GetCampus(ctx context.Context, id string) (*models.Campus, error) {
	campuses, err := s.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range campuses {
		if campuses[i].ID == id {
			return &campuses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
}

// CampusName resolves a campus ID to its display name, or "" when the ID
// does not resolve. Used for activity author decoration.
func (s *ContentService) CampusName(ctx context.Context, id string) string {
	campus, err := s.GetCampus(ctx, id)
	if err != nil {
		return ""
	}
	return campus.Name
}

// CreateCampus adds a new campus. The ID defaults to the slug of the name
// and must be unique ignoring case. A fresh campus starts with zero
// counters and a single empty structured ODL mode.
func (s *ContentService) CreateCampus(ctx context.Context, actor *models.User, req dto.CreateCampusRequest) (*models.Campus, error) {
	if err := s.requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campus name cannot be empty")
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = models.GenerateCampusID(req.Name)
	} else {
		id = models.GenerateCampusID(id)
	}
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "campus ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, err := s.store.Campuses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campuses")
	}
	for _, c := range campuses {
		if strings.EqualFold(c.ID, id) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "this campus ID already exists")
		}
	}

	campus := models.Campus{
		ID:   id,
		Name: req.Name,
		Modes: map[string]models.ModeData{
			"odl": {Count: 0, Completed: 0, Programmes: []models.Programme{}},
		},
	}
	campuses = append(campuses, campus)
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityCreate,
		fmt.Sprintf("Created new campus: %s", campus.Name),
		models.ViewModeBreakdown, map[string]string{"selectedCampusId": id})
	return &campus, nil
}

// RenameCampus updates a campus display name. The ID is immutable.
func (s *ContentService) RenameCampus(ctx context.Context, actor *models.User, id string, req dto.RenameCampusRequest) (*models.Campus, error) {
	if err := s.requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campus name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, id)
	if err != nil {
		return nil, err
	}
	campuses[idx].Name = req.Name
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityUpdate,
		fmt.Sprintf("Renamed campus %s to %s", id, req.Name),
		models.ViewModeBreakdown, map[string]string{"selectedCampusId": id})
	return &campuses[idx], nil
}

// DeleteCampus removes a campus and its whole subtree.
func (s *ContentService) DeleteCampus(ctx context.Context, actor *models.User, id string) error {
	if err := s.requireSuperAdmin(actor); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, id)
	if err != nil {
		return err
	}
	name := campuses[idx].Name
	campuses = append(campuses[:idx:idx], campuses[idx+1:]...)
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityDelete,
		fmt.Sprintf("Deleted campus: %s", name), "", nil)
	return nil
}

// AddMode attaches a new structured delivery mode to a campus. Keys are
// stored lower-cased; a key already present on the campus is rejected.
func (s *ContentService) AddMode(ctx context.Context, actor *models.User, campusID string, req dto.SaveModeRequest) (*models.Campus, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	key := models.CanonicalModeKey(req.Key)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode name required")
	}
	if key == models.ModeKeyOthers {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter a custom mode name instead of 'others'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	if _, exists := campuses[idx].Modes[key]; exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "mode name already exists")
	}
	if campuses[idx].Modes == nil {
		campuses[idx].Modes = map[string]models.ModeData{}
	}
	campuses[idx].Modes[key] = models.ModeData{Count: 0, Completed: 0, Programmes: []models.Programme{}}
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityCreate,
		fmt.Sprintf("Added mode '%s' to %s", key, campuses[idx].Name),
		models.ViewProgramList, map[string]string{"selectedCampusId": campusID, "selectedMode": key})
	return &campuses[idx], nil
}

// RenameMode moves a mode's data to a new key, preserving counters and the
// programme tree underneath.
func (s *ContentService) RenameMode(ctx context.Context, actor *models.User, campusID, oldKey string, req dto.SaveModeRequest) (*models.Campus, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	oldKey = models.CanonicalModeKey(oldKey)
	newKey := models.CanonicalModeKey(req.Key)
	if newKey == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode name required")
	}
	if newKey == models.ModeKeyOthers && newKey != oldKey {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter a custom mode name instead of 'others'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	data, ok := campuses[idx].Modes[oldKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	if newKey != oldKey {
		if _, exists := campuses[idx].Modes[newKey]; exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "mode name already exists")
		}
	}
	delete(campuses[idx].Modes, oldKey)
	campuses[idx].Modes[newKey] = data
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityUpdate,
		fmt.Sprintf("Renamed mode '%s' to '%s'", oldKey, newKey), "", nil)
	return &campuses[idx], nil
}

// DeleteMode removes a mode and all programmes underneath it.
func (s *ContentService) DeleteMode(ctx context.Context, actor *models.User, campusID, key string) error {
	if err := s.guardCampus(actor, campusID); err != nil {
		return err
	}
	key = models.CanonicalModeKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return err
	}
	if _, ok := campuses[idx].Modes[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	delete(campuses[idx].Modes, key)
	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityDelete,
		fmt.Sprintf("Deleted mode '%s'", key), "", nil)
	return nil
}

// loadCampus loads the collection and locates a campus by ID. Callers must
// hold s.mu.
func (s *ContentService) loadCampus(ctx context.Context, id string) ([]models.Campus, int, error) {
	campuses, err := s.store.Campuses(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campuses")
	}
	for i := range campuses {
		if campuses[i].ID == id {
			return campuses, i, nil
		}
	}
	return nil, 0, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
}

// commit writes the mutated collection back and drops cached dashboards.
// Both failures are non-fatal: the in-memory mutation already happened and
// the response reflects it.
func (s *ContentService) commit(ctx context.Context, campuses []models.Campus) {
	if err := s.store.SaveCampuses(ctx, campuses); err != nil {
		s.logger.Warn("failed to persist campuses", zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}
}

func (s *ContentService) logActivity(ctx context.Context, actor *models.User, campuses []models.Campus, activityType models.ActivityType, message, targetView string, targetParams map[string]string) {
	if s.activities == nil {
		return
	}
	author := AuthorLabel(actor, func(campusID string) string {
		for _, c := range campuses {
			if c.ID == campusID {
				return c.Name
			}
		}
		return ""
	})
	s.activities.Log(ctx, author, activityType, message, targetView, targetParams)
}

func (s *ContentService) requireSuperAdmin(actor *models.User) error {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "super admin access required")
	}
	return nil
}

// guardCampus enforces content scoping: campus admins may only touch their
// assigned campus, super admins may touch any.
func (s *ContentService) guardCampus(actor *models.User, campusID string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleCampusAdmin && actor.AssignedCampusID == campusID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "campus access denied")
}
