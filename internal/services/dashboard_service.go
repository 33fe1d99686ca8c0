package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/cache"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/store"
)

// DashboardFilter holds the raw query parameters of the dashboard.
type DashboardFilter struct {
	State    string `form:"state"`
	Area     string `form:"area"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Type     string `form:"type"`
}

// cacheKey is stable for equivalent filters.
func (f DashboardFilter) cacheKey() string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(f.State)),
		strings.ToLower(strings.TrimSpace(f.Area)),
		strings.TrimSpace(f.MinPrice),
		strings.TrimSpace(f.MaxPrice),
		strings.TrimSpace(f.Type),
	}
	return "dashboard:" + strings.Join(parts, "|")
}

// BuildPropertyFilter turns the dashboard filter into a Mongo query. Only
// active properties match. Text fields are case-insensitive substring
// matches and prices that do not parse are ignored.
func BuildPropertyFilter(f DashboardFilter) bson.M {
	filter := bson.M{"status": models.PropertyActive}

	if v := strings.TrimSpace(f.State); v != "" {
		filter["state"] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
	}
	if v := strings.TrimSpace(f.Area); v != "" {
		filter["area"] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
	}

	price := bson.M{}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.MinPrice), 64); err == nil {
		price["$gte"] = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.MaxPrice), 64); err == nil {
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if v := strings.TrimSpace(f.Type); v != "" {
		filter["type"] = v
	}
	return filter
}

// IDashboardService lists properties for the client dashboard.
type IDashboardService interface {
	ListProperties(ctx context.Context, filter DashboardFilter) ([]models.PropertyCard, error)
}

type dashboardService struct {
	props    store.PropertyStore
	users    store.UserStore
	cache    cache.JSONCache
	cacheTTL time.Duration
}

// NewDashboardService creates the service. A nil cache or a zero TTL
// disables caching.
func NewDashboardService(props store.PropertyStore, users store.UserStore, c cache.JSONCache, cacheTTL time.Duration) IDashboardService {
	return &dashboardService{props: props, users: users, cache: c, cacheTTL: cacheTTL}
}

func (s *dashboardService) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

// ListProperties caches only the matching properties. Agent contacts and
// rating aggregates are joined on every call so a new rating shows at once.
func (s *dashboardService) ListProperties(ctx context.Context, filter DashboardFilter) ([]models.PropertyCard, error) {
	properties, err := s.findProperties(ctx, filter)
	if err != nil {
		return nil, err
	}

	agentIDs := make([]primitive.ObjectID, 0, len(properties))
	seen := make(map[primitive.ObjectID]bool, len(properties))
	for _, p := range properties {
		if !seen[p.AgentID] {
			seen[p.AgentID] = true
			agentIDs = append(agentIDs, p.AgentID)
		}
	}
	agents, err := s.users.FindByIDs(ctx, agentIDs)
	if err != nil {
		return nil, err
	}

	cards := make([]models.PropertyCard, 0, len(properties))
	for _, p := range properties {
		card := models.PropertyCard{Property: p}
		if a, ok := agents[p.AgentID]; ok {
			card.Agent = &models.AgentContact{
				ID:           a.ID,
				Name:         a.Name,
				Email:        a.Email,
				Phone:        a.Phone,
				Rating:       a.Rating,
				TotalRatings: a.TotalRatings,
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *dashboardService) findProperties(ctx context.Context, filter DashboardFilter) ([]models.Property, error) {
	key := filter.cacheKey()
	if s.cacheEnabled() {
		var cached []models.Property
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		}
	}

	properties, err := s.props.FindActive(ctx, BuildPropertyFilter(filter))
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, properties, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
		}
	}
	return properties, nil
}
