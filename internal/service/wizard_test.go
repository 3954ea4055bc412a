package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type mockWizardContent struct {
	created []dto.CreateCampusRequest
	err     error
}

func (m *mockWizardContent) CreateCampus(ctx context.Context, actor *models.User, req dto.CreateCampusRequest) (*models.Campus, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	id := req.ID
	if id == "" {
		id = models.GenerateCampusID(req.Name)
	}
	return &models.Campus{ID: id, Name: req.Name, Modes: map[string]models.ModeData{}}, nil
}

type mockWizardUsers struct {
	existing map[string]*models.User
	ensured  []string
}

func (m *mockWizardUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.existing[username]; ok {
		return user, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (m *mockWizardUsers) EnsureCampusAdmin(ctx context.Context, actor *models.User, campusID string) (*models.User, bool, error) {
	m.ensured = append(m.ensured, campusID)
	return &models.User{Username: campusID + "_admin", Role: models.RoleCampusAdmin, AssignedCampusID: campusID}, true, nil
}

func TestWizardFullChain(t *testing.T) {
	content := &mockWizardContent{}
	users := &mockWizardUsers{}
	svc := NewWizardService(content, users, nil)
	ctx := context.Background()

	sess, err := svc.Start(ctx, dto.CreateCampusRequest{Name: "UniKL RMC"})
	require.NoError(t, err)
	assert.Equal(t, WizardStateConfirmCampus, sess.State)
	assert.Equal(t, "rmc", sess.CampusID)
	// Starting the chain must not create anything.
	assert.Empty(t, content.created)

	sess, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateConfirmAdminUser, sess.State)
	assert.Equal(t, "rmc_admin", sess.ProposedUsername)
	assert.Equal(t, "admin123", sess.ProposedPassword)
	require.Len(t, content.created, 1)

	sess, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateConfirmViewUsers, sess.State)
	assert.Equal(t, []string{"rmc"}, users.ensured)

	sess, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateDone, sess.State)
	assert.Equal(t, "users", sess.NextView)

	// A finished session is dropped.
	_, err = svc.Get(sess.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWizardSkipsAdminStepWhenAccountExists(t *testing.T) {
	content := &mockWizardContent{}
	users := &mockWizardUsers{existing: map[string]*models.User{
		"rmc_admin": {Username: "rmc_admin", Role: models.RoleCampusAdmin, AssignedCampusID: "rmc"},
	}}
	svc := NewWizardService(content, users, nil)
	ctx := context.Background()

	sess, err := svc.Start(ctx, dto.CreateCampusRequest{Name: "UniKL RMC"})
	require.NoError(t, err)

	sess, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateDone, sess.State)
	require.Len(t, content.created, 1)
	assert.Empty(t, users.ensured)
}

func TestWizardCancelKeepsAppliedSteps(t *testing.T) {
	content := &mockWizardContent{}
	users := &mockWizardUsers{}
	svc := NewWizardService(content, users, nil)
	ctx := context.Background()

	sess, err := svc.Start(ctx, dto.CreateCampusRequest{Name: "UniKL MFI"})
	require.NoError(t, err)
	sess, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateConfirmAdminUser, sess.State)

	require.NoError(t, svc.Cancel(sess.ID))
	// The campus created in step one stays; only the session is gone.
	assert.Len(t, content.created, 1)
	assert.Empty(t, users.ensured)
	_, err = svc.Get(sess.ID)
	require.Error(t, err)
}

func TestWizardStartRejectsEmptyName(t *testing.T) {
	svc := NewWizardService(&mockWizardContent{}, &mockWizardUsers{}, nil)

	_, err := svc.Start(context.Background(), dto.CreateCampusRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWizardCampusCreationFailureHoldsState(t *testing.T) {
	content := &mockWizardContent{err: appErrors.Clone(appErrors.ErrDuplicate, "campus already exists")}
	svc := NewWizardService(content, &mockWizardUsers{}, nil)
	ctx := context.Background()

	sess, err := svc.Start(ctx, dto.CreateCampusRequest{Name: "UniKL MIIT"})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, superAdmin(), sess.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)

	// The session is still at the first step so the caller can retry.
	current, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, WizardStateConfirmCampus, current.State)
}
