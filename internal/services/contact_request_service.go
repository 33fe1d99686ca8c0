package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/models"
	"greendrake/realty/internal/notify"
	"greendrake/realty/internal/store"
)

// IContactRequestService defines the contact-agent workflow.
type IContactRequestService interface {
	CreateRequest(ctx context.Context, actor Actor, agentID, propertyID string) (*models.ContactRequest, error)
}

// OperatorNotification configures who hears about new contact requests.
type OperatorNotification struct {
	Recipients  []string
	FromAddress string
}

type contactRequestService struct {
	users     store.UserStore
	props     store.PropertyStore
	requests  store.ContactRequestStore
	templates IEmailTemplateService
	notifier  notify.Notifier
	notifyCfg OperatorNotification
}

func NewContactRequestService(
	users store.UserStore,
	props store.PropertyStore,
	requests store.ContactRequestStore,
	templates IEmailTemplateService,
	notifier notify.Notifier,
	notifyCfg OperatorNotification,
) IContactRequestService {
	return &contactRequestService{
		users:     users,
		props:     props,
		requests:  requests,
		templates: templates,
		notifier:  notifier,
		notifyCfg: notifyCfg,
	}
}

// CreateRequest records a contact request for the triple and notifies the
// operators. Uniqueness is enforced by the store's unique index.
func (s *contactRequestService) CreateRequest(ctx context.Context, actor Actor, agentID, propertyID string) (*models.ContactRequest, error) {
	if err := actor.requireClient(); err != nil {
		return nil, err
	}
	agentOID, err := parseRef("agentId", agentID)
	if err != nil {
		return nil, err
	}
	propertyOID, err := parseRef("propertyId", propertyID)
	if err != nil {
		return nil, err
	}

	client, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupError("client", err)
	}
	agent, err := s.users.FindByID(ctx, agentOID)
	if err != nil {
		return nil, lookupError("agent", err)
	}
	if agent.Role != models.RoleAgent {
		return nil, fmt.Errorf("%w: agent %s", ErrNotFound, agentID)
	}
	property, err := s.props.FindByID(ctx, propertyOID)
	if err != nil {
		return nil, lookupError("property", err)
	}

	req := &models.ContactRequest{
		ClientID:   client.ID,
		AgentID:    agent.ID,
		PropertyID: property.ID,
		Status:     models.ContactPending,
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to save contact request: %w", err)
	}

	s.notifyOperators(ctx, client, agent, property, req)
	return req, nil
}

// contactNotificationData is the data the operator template renders.
type contactNotificationData struct {
	ClientName       string
	ClientEmail      string
	ClientPhone      string
	AgentName        string
	AgentEmail       string
	PropertyTitle    string
	PropertyLocation string
	PropertyPrice    string
	RequestedAt      string
}

// notifyOperators is best effort: each recipient is attempted independently
// and failures are only logged.
func (s *contactRequestService) notifyOperators(ctx context.Context, client, agent *models.User, property *models.Property, req *models.ContactRequest) {
	if len(s.notifyCfg.Recipients) == 0 {
		return
	}
	logger := log.With().Str("contact_request", req.ID.Hex()).Logger()

	tpl, err := s.templates.GetTemplate(ctx, TemplateContactRequestOperator, DefaultLocale)
	if err != nil {
		logger.Error().Err(err).Msg("notification failure: operator template unavailable")
		return
	}
	subject, body, err := RenderTemplate(tpl, contactNotificationData{
		ClientName:       client.Name,
		ClientEmail:      client.Email,
		ClientPhone:      client.Phone,
		AgentName:        agent.Name,
		AgentEmail:       agent.Email,
		PropertyTitle:    property.Title,
		PropertyLocation: property.Location,
		PropertyPrice:    FormatPrice(property.Price),
		RequestedAt:      req.CreatedAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		logger.Error().Err(err).Msg("notification failure: could not render operator email")
		return
	}

	for _, recipient := range s.notifyCfg.Recipients {
		msg := notify.Message{From: s.notifyCfg.FromAddress, To: recipient, Subject: subject, HTML: body}
		if err := s.notifier.Send(ctx, msg); err != nil {
			logger.Warn().Err(err).Str("recipient", recipient).Msg("notification failure")
			continue
		}
		logger.Debug().Str("recipient", recipient).Msg("operator notified")
	}
}

func lookupError(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
