package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"greendrake/realty/internal/api/handlers"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

func postContact(t *testing.T, svc *MockContactRequestService, body, contentType string) (int, handlers.ContactAgentResponse) {
	t.Helper()
	h := handlers.NewContactHandler(svc)
	r := newTestRouter()
	r.POST("/contact-agent", h.ContactAgent)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/contact-agent", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	var resp handlers.ContactAgentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestContactHandler_JSONSuccess(t *testing.T) {
	svc := new(MockContactRequestService)
	svc.On("CreateRequest", mock.Anything, testActor(), "a1", "p1").Return(&models.ContactRequest{}, nil).Once()

	code, resp := postContact(t, svc, `{"agentId":"a1","propertyId":"p1"}`, "application/json")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	svc.AssertExpectations(t)
}

func TestContactHandler_FormBody(t *testing.T) {
	svc := new(MockContactRequestService)
	svc.On("CreateRequest", mock.Anything, testActor(), "a1", "p1").Return(&models.ContactRequest{}, nil).Once()

	form := url.Values{"agentId": {"a1"}, "propertyId": {"p1"}}
	code, resp := postContact(t, svc, form.Encode(), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestContactHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"missing field", services.ErrMissingField, http.StatusBadRequest},
		{"duplicate", services.ErrDuplicateRequest, http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockContactRequestService)
			svc.On("CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			code, resp := postContact(t, svc, `{"agentId":"a1","propertyId":"p1"}`, "application/json")
			assert.Equal(t, tt.wantCode, code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestContactHandler_DuplicateMessage(t *testing.T) {
	svc := new(MockContactRequestService)
	svc.On("CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateRequest)

	_, resp := postContact(t, svc, `{"agentId":"a1","propertyId":"p1"}`, "application/json")
	assert.Contains(t, resp.Message, "already contacted")
}

func TestContactHandler_InvalidJSON(t *testing.T) {
	svc := new(MockContactRequestService)
	code, resp := postContact(t, svc, `{"agentId":`, "application/json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	svc.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
