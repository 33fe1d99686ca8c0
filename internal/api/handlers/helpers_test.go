package handlers_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/api/handlers"
	"greendrake/realty/internal/api/middleware"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

var testClientID = primitive.NewObjectID()

func testActor() services.Actor {
	return services.Actor{ID: testClientID, Role: models.RoleClient}
}

// newTestRouter stands in for AuthMiddleware with a fixed client identity.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(handlers.LoadTemplates())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, testClientID.Hex())
		c.Set(middleware.ContextKeyRole, models.RoleClient)
		c.Next()
	})
	return r
}

// flashFrom decodes the flash cookie set on the response.
func flashFrom(t *testing.T, w *httptest.ResponseRecorder) handlers.Flash {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			raw, err := base64.RawURLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			var f handlers.Flash
			require.NoError(t, json.Unmarshal(raw, &f))
			return f
		}
	}
	t.Fatalf("no flash cookie in response")
	return handlers.Flash{}
}

func flashCookie(kind, message string) *http.Cookie {
	raw, _ := json.Marshal(handlers.Flash{Type: kind, Message: message})
	return &http.Cookie{Name: "flash", Value: base64.RawURLEncoding.EncodeToString(raw)}
}
