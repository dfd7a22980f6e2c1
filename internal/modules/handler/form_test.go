package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func strPtr(s string) *string { return &s }

type mockFormService[T any, PT interface {
	*T
	repo.SessionScoped
}] struct {
	mock.Mock
}

func (m *mockFormService[T, PT]) Get(ctx context.Context, sessionID string) (PT, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockFormService[T, PT]) Put(ctx context.Context, sessionID string, rec PT) (PT, error) {
	args := m.Called(ctx, sessionID, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockFormService[T, PT]) Patch(ctx context.Context, sessionID string, fields map[string]any) (PT, error) {
	args := m.Called(ctx, sessionID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockFormService[T, PT]) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func newSiteAccessRouter(svc service.FormService[model.SiteAccess, *model.SiteAccess]) *gin.Engine {
	r := gin.New()
	h := NewFormHandler(svc)
	r.GET("/site-access/:session_id", h.Get)
	r.PUT("/site-access/:session_id", h.Put)
	r.PATCH("/site-access/:session_id", h.Patch)
	r.DELETE("/site-access/:session_id", h.Delete)
	return r
}

func TestFormHandlerGet(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	svc.On("Get", mock.Anything, "S1").Return(&model.SiteAccess{
		SessionID:    "S1",
		KeysRequired: strPtr("Yes"),
	}, nil)
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/site-access/S1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"keys_required":"Yes"`)
}

func TestFormHandlerPutInvalidJSON(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/site-access/S1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"VALIDATION_ERROR"`)
	svc.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormHandlerPutMissingSurvey(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	svc.On("Put", mock.Anything, "S1", mock.Anything).
		Return(nil, service.SurveyNotFound("S1"))
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/site-access/S1", strings.NewReader(`{"keys_required":"Yes"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"FOREIGN_KEY_ERROR"`)
	assert.Contains(t, w.Body.String(), "create the survey first")
}

func TestFormHandlerPutForwardsBody(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	svc.On("Put", mock.Anything, "S1", mock.MatchedBy(func(rec *model.SiteAccess) bool {
		return rec.KeysRequired != nil && *rec.KeysRequired == "No"
	})).Return(&model.SiteAccess{SessionID: "S1", KeysRequired: strPtr("No")}, nil)
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/site-access/S1", strings.NewReader(`{"keys_required":"No"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFormHandlerPatchNotFound(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	svc.On("Patch", mock.Anything, "S1", map[string]any{"access_notes": "hi"}).
		Return(nil, service.NewNotFound("site access data not found for session_id 'S1'"))
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/site-access/S1", strings.NewReader(`{"access_notes":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"NOT_FOUND"`)
}

func TestFormHandlerDelete(t *testing.T) {
	svc := &mockFormService[model.SiteAccess, *model.SiteAccess]{}
	svc.On("Delete", mock.Anything, "S1").Return(nil)
	r := newSiteAccessRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/site-access/S1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
	svc.AssertExpectations(t)
}
