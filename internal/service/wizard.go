package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

// WizardState is one step of the campus creation chain. The dashboard
// presented these as stacked confirmation modals; the API models them as an
// explicit state machine so a client can drive the same flow.
type WizardState string

const (
	WizardStateConfirmCampus    WizardState = "CONFIRM_CAMPUS"
	WizardStateConfirmAdminUser WizardState = "CONFIRM_ADMIN_USER"
	WizardStateConfirmViewUsers WizardState = "CONFIRM_VIEW_USERS"
	WizardStateDone             WizardState = "DONE"
)

const wizardSessionTTL = 15 * time.Minute

type wizardContent interface {
	CreateCampus(ctx context.Context, actor *models.User, req dto.CreateCampusRequest) (*models.Campus, error)
}

type wizardUsers interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureCampusAdmin(ctx context.Context, actor *models.User, campusID string) (*models.User, bool, error)
}

// WizardSession is the client-visible snapshot of one chain.
type WizardSession struct {
	ID               string      `json:"id"`
	State            WizardState `json:"state"`
	CampusID         string      `json:"campusId,omitempty"`
	CampusName       string      `json:"campusName,omitempty"`
	ProposedUsername string      `json:"proposedUsername,omitempty"`
	ProposedPassword string      `json:"proposedPassword,omitempty"`
	NextView         string      `json:"nextView,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// WizardService drives the campus creation chain: confirm the campus, then
// optionally auto-create its admin account, then offer to jump to user
// management. A step is only applied on explicit confirmation; cancel at
// any point keeps everything already applied and discards the rest.
type WizardService struct {
	content wizardContent
	users   wizardUsers
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*wizardRecord
}

type wizardRecord struct {
	session WizardSession
	request dto.CreateCampusRequest
}

// NewWizardService constructs the wizard service.
func NewWizardService(content wizardContent, users wizardUsers, logger *zap.Logger) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		content:  content,
		users:    users,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*wizardRecord),
	}
}

// Start opens a chain for the given campus request. Nothing is created yet.
func (s *WizardService) Start(ctx context.Context, req dto.CreateCampusRequest) (*WizardSession, error) {
	if req.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "campus name cannot be empty")
	}
	id := req.ID
	if id == "" {
		id = models.GenerateCampusID(req.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()

	record := &wizardRecord{
		session: WizardSession{
			ID:         uuid.NewString(),
			State:      WizardStateConfirmCampus,
			CampusID:   id,
			CampusName: req.Name,
			CreatedAt:  s.now().UTC(),
		},
		request: req,
	}
	s.sessions[record.session.ID] = record
	copied := record.session
	return &copied, nil
}

// Confirm applies the pending step and advances the chain.
func (s *WizardService) Confirm(ctx context.Context, actor *models.User, sessionID string) (*WizardSession, error) {
	s.mu.Lock()
	record, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}

	switch record.session.State {
	case WizardStateConfirmCampus:
		campus, err := s.content.CreateCampus(ctx, actor, record.request)
		if err != nil {
			return nil, err
		}

		proposed := campus.ID + "_admin"
		if _, err := s.users.FindByUsername(ctx, proposed); err == nil {
			// An admin for this slug already exists; the chain is over.
			return s.advance(sessionID, func(sess *WizardSession) {
				sess.State = WizardStateDone
				sess.CampusID = campus.ID
			})
		}
		return s.advance(sessionID, func(sess *WizardSession) {
			sess.State = WizardStateConfirmAdminUser
			sess.CampusID = campus.ID
			sess.ProposedUsername = proposed
			sess.ProposedPassword = "admin123"
		})

	case WizardStateConfirmAdminUser:
		if _, _, err := s.users.EnsureCampusAdmin(ctx, actor, record.session.CampusID); err != nil {
			return nil, err
		}
		return s.advance(sessionID, func(sess *WizardSession) {
			sess.State = WizardStateConfirmViewUsers
		})

	case WizardStateConfirmViewUsers:
		return s.advance(sessionID, func(sess *WizardSession) {
			sess.State = WizardStateDone
			sess.NextView = "users"
		})

	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "wizard chain already finished")
	}
}

// Cancel ends the chain. Steps already confirmed stay applied.
func (s *WizardService) Cancel(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	delete(s.sessions, sessionID)
	return nil
}

// Get returns the current session snapshot.
func (s *WizardService) Get(sessionID string) (*WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.sessions[sessionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	copied := record.session
	return &copied, nil
}

func (s *WizardService) advance(sessionID string, mutate func(*WizardSession)) (*WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.sessions[sessionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	mutate(&record.session)
	if record.session.State == WizardStateDone {
		defer delete(s.sessions, sessionID)
	}
	copied := record.session
	return &copied, nil
}

// prune drops stale sessions. Callers must hold s.mu.
func (s *WizardService) prune() {
	cutoff := s.now().Add(-wizardSessionTTL)
	for id, record := range s.sessions {
		if record.session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
