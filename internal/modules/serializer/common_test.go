package serializer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind service.ErrorKind
		want int
	}{
		{service.ErrKindValidation, http.StatusBadRequest},
		{service.ErrKindForeignKey, http.StatusBadRequest},
		{service.ErrKindNotFound, http.StatusNotFound},
		{service.ErrKindDuplicate, http.StatusConflict},
		{service.ErrKindInternal, http.StatusInternalServerError},
		{service.ErrorKind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.kind), string(tt.kind))
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{
			name:       "service error carries its kind and message",
			err:        service.NewNotFound("Survey with session_id 'S1' not found"),
			wantStatus: http.StatusNotFound,
			wantType:   "NOT_FOUND",
			wantMsg:    "Survey with session_id 'S1' not found",
		},
		{
			name:       "foreign key maps to 400",
			err:        service.SurveyNotFound("S1"),
			wantStatus: http.StatusBadRequest,
			wantType:   "FOREIGN_KEY_ERROR",
			wantMsg:    "Survey with session_id 'S1' not found, create the survey first",
		},
		{
			name:       "wrapped service error is still unwrapped",
			err:        errors.Join(errors.New("outer"), service.NewDuplicate("already there")),
			wantStatus: http.StatusConflict,
			wantType:   "DUPLICATE_ERROR",
			wantMsg:    "already there",
		},
		{
			name:       "unknown errors do not leak detail",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "INTERNAL_ERROR",
			wantMsg:    "internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			WriteError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestOKEnvelope(t *testing.T) {
	resp := OK(map[string]any{"hello": "world"})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"hello":"world"}}`, string(raw))
}
