package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/middleware"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type fakeContentSrv struct {
	campuses  []models.Campus
	created   *dto.CreateCampusRequest
	createErr error
	lastActor *models.User
}

func (f *fakeContentSrv) ListCampuses(context.Context) ([]models.Campus, error) {
	return f.campuses, nil
}

func (f *fakeContentSrv) GetCampus(_ context.Context, id string) (*models.Campus, error) {
	for i := range f.campuses {
		if f.campuses[i].ID == id {
			return &f.campuses[i], nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeContentSrv) CreateCampus(_ context.Context, actor *models.User, req dto.CreateCampusRequest) (*models.Campus, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	f.lastActor = actor
	return &models.Campus{ID: req.ID, Name: req.Name, Modes: map[string]models.ModeData{}}, nil
}

func (f *fakeContentSrv) RenameCampus(_ context.Context, _ *models.User, id string, req dto.RenameCampusRequest) (*models.Campus, error) {
	return &models.Campus{ID: id, Name: req.Name}, nil
}

func (f *fakeContentSrv) DeleteCampus(context.Context, *models.User, string) error { return nil }

func (f *fakeContentSrv) AddMode(_ context.Context, _ *models.User, campusID string, _ dto.SaveModeRequest) (*models.Campus, error) {
	return &models.Campus{ID: campusID}, nil
}

func (f *fakeContentSrv) RenameMode(_ context.Context, _ *models.User, campusID, _ string, _ dto.SaveModeRequest) (*models.Campus, error) {
	return &models.Campus{ID: campusID}, nil
}

func (f *fakeContentSrv) DeleteMode(context.Context, *models.User, string, string) error { return nil }

func superClaims() *models.JWTClaims {
	return &models.JWTClaims{Username: "super_admin", Role: models.RoleSuperAdmin}
}

func TestContentHandlerCreateCampus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeContentSrv{}
	handler := NewContentHandler(service)

	body, _ := json.Marshal(dto.CreateCampusRequest{ID: "rmc", Name: "UniKL RMC"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/campuses", bytes.NewReader(body))
	c.Set(middleware.ContextUserKey, superClaims())

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "UniKL RMC", service.created.Name)
	assert.Equal(t, "super_admin", service.lastActor.Username)
}

func TestContentHandlerCreateCampusInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&fakeContentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/campuses", bytes.NewReader([]byte("{broken")))

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentHandlerCreateCampusDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&fakeContentSrv{
		createErr: appErrors.Clone(appErrors.ErrDuplicate, "a campus with this name already exists"),
	})

	body, _ := json.Marshal(dto.CreateCampusRequest{ID: "miit", Name: "UniKL MIIT"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/campuses", bytes.NewReader(body))
	c.Set(middleware.ContextUserKey, superClaims())

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestContentHandlerGetUnknownCampus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&fakeContentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/campuses/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&fakeContentSrv{campuses: []models.Campus{
		{ID: "miit", Name: "UniKL MIIT"},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/campuses", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, "miit", envelope.Data[0]["id"])
}
