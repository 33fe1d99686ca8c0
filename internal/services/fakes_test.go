package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/cache"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/store"
)

// In-memory stores that honour the same uniqueness and not-found contracts
// as the Mongo implementations.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("find user: %w", store.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[primitive.ObjectID]*models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *fakeUserStore) UpdateAgentRating(ctx context.Context, agentID primitive.ObjectID, agg models.RatingAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[agentID]
	if !ok || u.Role != models.RoleAgent {
		return store.ErrNotFound
	}
	u.Rating = agg.Average
	u.TotalRatings = agg.Count
	return nil
}

func (s *fakeUserStore) AddUnlockedAgent(ctx context.Context, clientID, agentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[clientID]
	if !ok {
		return store.ErrNotFound
	}
	if !u.HasUnlocked(agentID) {
		u.UnlockedAgents = append(u.UnlockedAgents, agentID)
	}
	return nil
}

type fakePropertyStore struct {
	props      map[primitive.ObjectID]*models.Property
	lastFilter bson.M
	findCalls  int
	err        error
}

func newFakePropertyStore(props ...*models.Property) *fakePropertyStore {
	s := &fakePropertyStore{props: map[primitive.ObjectID]*models.Property{}}
	for _, p := range props {
		s.props[p.ID] = p
	}
	return s
}

func (s *fakePropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, ok := s.props[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// FindActive ignores everything but status; filter semantics are covered by
// BuildPropertyFilter tests and the Mongo store tests.
func (s *fakePropertyStore) FindActive(ctx context.Context, filter bson.M) ([]models.Property, error) {
	s.findCalls++
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Property
	for _, p := range s.props {
		if p.Status == models.PropertyActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakePropertyStore) FindActiveByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Property, error) {
	var out []models.Property
	for _, p := range s.props {
		if p.AgentID == agentID && p.Status == models.PropertyActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRatingStore struct {
	mu      sync.Mutex
	ratings []models.Rating
}

func (s *fakeRatingStore) FindOne(ctx context.Context, triple models.Triple) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ratings {
		if s.ratings[i].Triple() == triple {
			cp := s.ratings[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeRatingStore) FindByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.AgentID == agentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRatingStore) Insert(ctx context.Context, rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.Triple() == rating.Triple() {
			return fmt.Errorf("insert rating: %w", store.ErrDuplicate)
		}
	}
	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now().UTC()
	s.ratings = append(s.ratings, *rating)
	return nil
}

func (s *fakeRatingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ratings)
}

type fakeContactRequestStore struct {
	mu       sync.Mutex
	requests []models.ContactRequest
}

func (s *fakeContactRequestStore) Insert(ctx context.Context, req *models.ContactRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.Triple() == req.Triple() {
			return fmt.Errorf("insert contact request: %w", store.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests = append(s.requests, *req)
	return nil
}

func (s *fakeContactRequestStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakeEmailTemplateStore struct {
	templates map[string]models.EmailTemplate
	err       error
}

func (s *fakeEmailTemplateStore) Find(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}
	tpl, ok := s.templates[templateID+"/"+locale]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &tpl, nil
}

func (s *fakeEmailTemplateStore) Save(ctx context.Context, tpl *models.EmailTemplate) error {
	if s.templates == nil {
		s.templates = map[string]models.EmailTemplate{}
	}
	s.templates[tpl.TemplateID+"/"+tpl.Locale] = *tpl
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest any) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.entries[key] = raw
	return nil
}

var (
	_ cache.JSONCache           = (*fakeCache)(nil)
	_ store.UserStore           = (*fakeUserStore)(nil)
	_ store.PropertyStore       = (*fakePropertyStore)(nil)
	_ store.RatingStore         = (*fakeRatingStore)(nil)
	_ store.ContactRequestStore = (*fakeContactRequestStore)(nil)
	_ store.EmailTemplateStore  = (*fakeEmailTemplateStore)(nil)
)

// fixture is a small marketplace: one client, two agents, three properties.
type fixture struct {
	client   *models.User
	agent    *models.User
	agent2   *models.User
	property *models.Property
	house    *models.Property
	sold     *models.Property
	users    *fakeUserStore
	props    *fakePropertyStore
}

func newFixture() *fixture {
	f := &fixture{
		client: &models.User{ID: primitive.NewObjectID(), Name: "Cleo Client", Email: "cleo@example.com", Phone: "+15550100", Role: models.RoleClient},
		agent:  &models.User{ID: primitive.NewObjectID(), Name: "Aldo Agent", Email: "aldo@example.com", Phone: "+15550111", Role: models.RoleAgent},
		agent2: &models.User{ID: primitive.NewObjectID(), Name: "Bea Broker", Email: "bea@example.com", Role: models.RoleAgent},
	}
	now := time.Now().UTC()
	f.property = &models.Property{ID: primitive.NewObjectID(), Title: "Sunny Flat", Location: "12 Harbour St", State: "Lagos", Area: "Lekki", Type: "apartment", Price: 250000, AgentID: f.agent.ID, Status: models.PropertyActive, CreatedAt: now.Add(-time.Hour)}
	f.house = &models.Property{ID: primitive.NewObjectID(), Title: "Garden House", Location: "4 Elm Rd", State: "Lagos", Area: "Ikoyi", Type: "house", Price: 900000, AgentID: f.agent2.ID, Status: models.PropertyActive, CreatedAt: now}
	f.sold = &models.Property{ID: primitive.NewObjectID(), Title: "Gone", AgentID: f.agent.ID, Status: models.PropertySold, CreatedAt: now}
	f.users = newFakeUserStore(f.client, f.agent, f.agent2)
	f.props = newFakePropertyStore(f.property, f.house, f.sold)
	return f
}

func (f *fixture) actor() Actor {
	return Actor{ID: f.client.ID, Role: models.RoleClient}
}
