package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/api/handlers"
	"greendrake/realty/internal/api/middleware"
	"greendrake/realty/internal/auth"
	"greendrake/realty/internal/config"
	"greendrake/realty/internal/email"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

// Services bundles what the page handlers depend on.
type Services struct {
	Dashboard  services.IDashboardService
	Contact    services.IContactRequestService
	Rating     services.IRatingService
	RatingPage services.IRatingPageService
	Health     map[string]handlers.Pinger
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, svc Services, rateLimiter *middleware.RateLimiterMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), handlers.CookiePolicy(cfg.SessionCookieSecure))
	r.SetHTMLTemplate(handlers.LoadTemplates())

	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	contactHandler := handlers.NewContactHandler(svc.Contact)
	ratingHandler := handlers.NewRatingHandler(svc.Rating, svc.RatingPage)

	r.GET("/", dashboardHandler.ShowHome)
	r.GET("/healthz", handlers.Healthz(svc.Health))

	// isAuthenticated + isClient
	clients := r.Group("/")
	clients.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.ClientMiddleware())
	{
		clients.GET("/dashboard", dashboardHandler.ShowDashboard)
		clients.POST("/contact-agent", rateLimiter.Limit(), contactHandler.ContactAgent)
		clients.GET("/rate/:agentId", ratingHandler.ShowRatingForm)
		clients.POST("/rate/:agentId", rateLimiter.Limit(), ratingHandler.SubmitRating)
	}

	return r
}

// SetupServiceRouter configures the internal service API used by operators
// and end to end tests. It must not be exposed publicly.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, access services.IAccessService, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Info().Msg("received shutdown command via service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				log.Warn().Msg("shutdown channel already signaled")
			}

		case "getTestEmail":
			var args []string // ["email"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [email]"})
				return
			}
			captured, err := pollTestEmail(c.Request.Context(), rdb, email.MockEmailKey(args[0]))
			if err != nil {
				if errors.Is(err, redis.Nil) {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found for %s", args[0])})
					return
				}
				log.Error().Err(err).Msg("service API: failed to read test email")
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": captured})

		case "issueToken":
			var args []string // ["userId", "role"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 2 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [userId, role]"})
				return
			}
			userID, err := primitive.ObjectIDFromHex(args[0])
			role := models.Role(args[1])
			if err != nil || !role.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid userId or role"})
				return
			}
			token, err := auth.GenerateJWT(userID, role, cfg.JwtSecret, cfg.JwtTTL)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to issue token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "result": token})

		case "unlockAgent":
			var args []string // ["clientId", "agentId"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 2 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [clientId, agentId]"})
				return
			}
			clientID, errC := primitive.ObjectIDFromHex(args[0])
			agentID, errA := primitive.ObjectIDFromHex(args[1])
			if errC != nil || errA != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid clientId or agentId"})
				return
			}
			if err := access.Unlock(c.Request.Context(), clientID, agentID); err != nil {
				if errors.Is(err, services.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to unlock agent"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "unlocked"})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}

// pollTestEmail waits briefly for the mock sender to store an email, then
// consumes it. It returns redis.Nil when nothing arrived in time.
func pollTestEmail(ctx context.Context, rdb *redis.Client, key string) (*email.CapturedEmail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for i := 0; i < 10; i++ {
		raw, err := rdb.GetDel(ctx, key).Bytes()
		if err == nil {
			var captured email.CapturedEmail
			if err := json.Unmarshal(raw, &captured); err != nil {
				return nil, fmt.Errorf("failed to parse stored email data: %w", err)
			}
			return &captured, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, redis.Nil
		case <-time.After(200 * time.Millisecond):
		}
	}
	return nil, redis.Nil
}
