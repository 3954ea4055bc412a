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

type userStore interface {
	Users(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
	Campuses(ctx context.Context) ([]models.Campus, error)
}

// UserService manages admin accounts. Account identity is the username; a
// campus admin carries an AssignedCampusID that is a weak reference: the
// campus may be deleted without touching the account, and list responses
// flag the dangling reference instead of repairing it.
type UserService struct {
	store      userStore
	activities activityLogger
	validator  *validator.Validate
	logger     *zap.Logger

	mu sync.Mutex
}

// NewUserService constructs the user service.
func NewUserService(store userStore, activities activityLogger, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{store: store, activities: activities, validator: validate, logger: logger}
}

// List returns all accounts with dangling campus references flagged.
func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	campuses, err := s.store.Campuses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campuses")
	}

	known := make(map[string]struct{}, len(campuses))
	for _, c := range campuses {
		known[c.ID] = struct{}{}
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		view := models.UserView{User: u}
		if u.AssignedCampusID != "" {
			if _, ok := known[u.AssignedCampusID]; !ok {
				view.DanglingCampusRef = true
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Create adds a new account. Usernames must be unique.
func (s *UserService) Create(ctx context.Context, actor *models.User, req dto.SaveUserRequest) (*models.User, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	username := strings.TrimSpace(req.Username)
	for _, u := range users {
		if u.Username == username {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "username already exists")
		}
	}

	user := models.User{
		Username:         username,
		Password:         req.Password,
		Role:             req.Role,
		AssignedCampusID: req.AssignedCampusID,
	}
	users = append(users, user)
	s.persist(ctx, users)
	s.log(ctx, actor, models.ActivityCreate, fmt.Sprintf("Created user %s", user.Username))
	return &user, nil
}

// Update replaces the fields of an existing account.
func (s *UserService) Update(ctx context.Context, actor *models.User, username string, req dto.SaveUserRequest) (*models.User, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	for i := range users {
		if users[i].Username != username {
			continue
		}
		users[i] = models.User{
			Username:         strings.TrimSpace(req.Username),
			Password:         req.Password,
			Role:             req.Role,
			AssignedCampusID: req.AssignedCampusID,
		}
		s.persist(ctx, users)
		s.log(ctx, actor, models.ActivityUpdate, fmt.Sprintf("Updated user %s", users[i].Username))
		return &users[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

// Delete removes an account. Deleting the account you are logged in with is
// rejected.
func (s *UserService) Delete(ctx context.Context, actor *models.User, username string) error {
	if actor != nil && actor.Username == username {
		return appErrors.Clone(appErrors.ErrForbidden, "you cannot delete your own account while logged in")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	for i := range users {
		if users[i].Username != username {
			continue
		}
		users = append(users[:i:i], users[i+1:]...)
		s.persist(ctx, users)
		s.log(ctx, actor, models.ActivityDelete, fmt.Sprintf("Deleted user %s", username))
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

// EnsureCampusAdmin creates the conventional <campusID>_admin account if it
// does not already exist. Returns the account and whether it was created.
func (s *UserService) EnsureCampusAdmin(ctx context.Context, actor *models.User, campusID string) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	username := campusID + "_admin"
	for i := range users {
		if users[i].Username == username {
			return &users[i], false, nil
		}
	}

	user := models.User{
		Username:         username,
		Password:         "admin123",
		Role:             models.RoleCampusAdmin,
		AssignedCampusID: campusID,
	}
	users = append(users, user)
	s.persist(ctx, users)
	s.log(ctx, actor, models.ActivityCreate, fmt.Sprintf("Auto-created admin user: %s", username))
	return &user, true, nil
}

// FindByUsername resolves a stored account, used to materialize the actor
// from token claims.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (s *UserService) validateSave(req dto.SaveUserRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}
	if req.Role == models.RoleCampusAdmin && req.AssignedCampusID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "assigned campus is required for campus admins")
	}
	return nil
}

func (s *UserService) persist(ctx context.Context, users []models.User) {
	if err := s.store.SaveUsers(ctx, users); err != nil {
		s.logger.Warn("failed to persist users", zap.Error(err))
	}
}

func (s *UserService) log(ctx context.Context, actor *models.User, activityType models.ActivityType, message string) {
	if s.activities == nil {
		return
	}
	lookup := func(campusID string) string {
		campuses, err := s.store.Campuses(ctx)
		if err != nil {
			return ""
		}
		for _, c := range campuses {
			if c.ID == campusID {
				return c.Name
			}
		}
		return ""
	}
	s.activities.Log(ctx, AuthorLabel(actor, lookup), activityType, message, "", nil)
}
