package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSurveyService struct {
	mock.Mock
}

func (m *mockSurveyService) Create(ctx context.Context, s *model.Survey) (*model.Survey, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Survey), args.Error(1)
}

func (m *mockSurveyService) Get(ctx context.Context, sessionID string) (*model.Survey, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Survey), args.Error(1)
}

func (m *mockSurveyService) List(ctx context.Context, limit, offset int) (*service.SurveyList, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SurveyList), args.Error(1)
}

func (m *mockSurveyService) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func newSurveyRouter(svc service.SurveyService) *gin.Engine {
	r := gin.New()
	h := NewSurveyHandler(svc)
	r.POST("/surveys", h.Create)
	r.GET("/surveys", h.List)
	r.GET("/surveys/:session_id", h.Get)
	r.DELETE("/surveys/:session_id", h.Delete)
	return r
}

func TestSurveyHandlerCreate(t *testing.T) {
	svc := &mockSurveyService{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Survey) bool {
		return s.SessionID == "S1" && s.SiteID == "DE-1042"
	})).Return(&model.Survey{SessionID: "S1", SiteID: "DE-1042"}, nil)
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/surveys",
		strings.NewReader(`{"session_id":"S1","site_id":"DE-1042"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"session_id":"S1"`)
	svc.AssertExpectations(t)
}

func TestSurveyHandlerCreateDuplicate(t *testing.T) {
	svc := &mockSurveyService{}
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, service.NewDuplicate("Survey with session_id 'S1' already exists"))
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/surveys", strings.NewReader(`{"session_id":"S1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"DUPLICATE_ERROR"`)
}

func TestSurveyHandlerListDefaultsPaging(t *testing.T) {
	svc := &mockSurveyService{}
	svc.On("List", mock.Anything, 20, 0).Return(&service.SurveyList{
		Items: []model.Survey{}, Total: 0, Limit: 20, Offset: 0,
	}, nil)
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/surveys", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSurveyHandlerListRejectsOversizedLimit(t *testing.T) {
	svc := &mockSurveyService{}
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/surveys?limit=500", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestSurveyHandlerGetNotFound(t *testing.T) {
	svc := &mockSurveyService{}
	svc.On("Get", mock.Anything, "missing").
		Return(nil, service.NewNotFound("Survey with session_id 'missing' not found"))
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/surveys/missing", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSurveyHandlerDelete(t *testing.T) {
	svc := &mockSurveyService{}
	svc.On("Delete", mock.Anything, "S1").Return(nil)
	r := newSurveyRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/surveys/S1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
