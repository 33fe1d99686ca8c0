package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/api/middleware"
	"greendrake/realty/internal/services"
)

// ContactHandler serves the contact-agent workflow.
type ContactHandler struct {
	contactService services.IContactRequestService
}

func NewContactHandler(contactService services.IContactRequestService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactAgentRequest accepts either a JSON or a form body.
type ContactAgentRequest struct {
	AgentID    string `json:"agentId" form:"agentId"`
	PropertyID string `json:"propertyId" form:"propertyId"`
}

// ContactAgentResponse is the JSON reply of POST /contact-agent.
type ContactAgentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactAgent handles POST /contact-agent
func (h *ContactHandler) ContactAgent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ContactAgentResponse{Message: "Authentication required"})
		return
	}

	var req ContactAgentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ContactAgentResponse{Message: "Invalid request body"})
		return
	}

	_, err := h.contactService.CreateRequest(c.Request.Context(), actor, req.AgentID, req.PropertyID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, ContactAgentResponse{Success: true, Message: "Your request has been sent. The agent will be in touch shortly."})
	case errors.Is(err, services.ErrMissingField):
		c.JSON(http.StatusBadRequest, ContactAgentResponse{Message: "Agent and property are required"})
	case errors.Is(err, services.ErrDuplicateRequest):
		c.JSON(http.StatusBadRequest, ContactAgentResponse{Message: "You have already contacted this agent about this property"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ContactAgentResponse{Message: "Agent or property not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ContactAgentResponse{Message: "Client account required"})
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("agent", req.AgentID).Str("property", req.PropertyID).Msg("failed to create contact request")
		c.JSON(http.StatusInternalServerError, ContactAgentResponse{Message: "Something went wrong. Please try again later."})
	}
}
