package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/api/handlers"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

func TestDashboardHandler_ShowDashboard_Success(t *testing.T) {
	svc := new(MockDashboardService)
	h := handlers.NewDashboardHandler(svc)
	r := newTestRouter()
	r.GET("/dashboard", h.ShowDashboard)

	agentID := primitive.NewObjectID()
	cards := []models.PropertyCard{{
		Property: models.Property{ID: primitive.NewObjectID(), Title: "Sunny <Flat>", Location: "12 Harbour St", Price: 250000, AgentID: agentID, Status: models.PropertyActive},
		Agent:    &models.AgentContact{ID: agentID, Name: "Aldo Agent", Email: "aldo@example.com", Rating: 4.5, TotalRatings: 2},
	}}
	expectedFilter := services.DashboardFilter{State: "Lagos", MinPrice: "100", Type: "house"}
	svc.On("ListProperties", mock.Anything, expectedFilter).Return(cards, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard?state=Lagos&minPrice=100&type=house", nil)
	req.AddCookie(flashCookie(handlers.FlashSuccess, "Rating saved"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Sunny &lt;Flat&gt;")
	assert.Contains(t, body, "250,000")
	assert.Contains(t, body, "Aldo Agent")
	assert.Contains(t, body, "4.5 (2)")
	assert.Contains(t, body, "/rate/"+agentID.Hex())
	assert.Contains(t, body, "Rating saved")
	svc.AssertExpectations(t)
}

func TestDashboardHandler_ShowDashboard_Empty(t *testing.T) {
	svc := new(MockDashboardService)
	h := handlers.NewDashboardHandler(svc)
	r := newTestRouter()
	r.GET("/dashboard", h.ShowDashboard)

	svc.On("ListProperties", mock.Anything, services.DashboardFilter{}).Return([]models.PropertyCard{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No properties match your search.")
}

func TestDashboardHandler_ShowDashboard_ErrorRedirects(t *testing.T) {
	svc := new(MockDashboardService)
	h := handlers.NewDashboardHandler(svc)
	r := newTestRouter()
	r.GET("/dashboard", h.ShowDashboard)

	svc.On("ListProperties", mock.Anything, mock.Anything).Return(nil, errors.New("mongo down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, handlers.FlashError, flashFrom(t, w).Type)
}

func TestDashboardHandler_ShowHome(t *testing.T) {
	h := handlers.NewDashboardHandler(new(MockDashboardService))
	r := newTestRouter()
	r.GET("/", h.ShowHome)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(flashCookie(handlers.FlashError, "Unable to load properties"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load properties")
}
