package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/api/middleware"
	"greendrake/realty/internal/services"
)

// RatingHandler serves the rating form and its submission.
type RatingHandler struct {
	ratingService services.IRatingService
	pageService   services.IRatingPageService
}

func NewRatingHandler(ratingService services.IRatingService, pageService services.IRatingPageService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, pageService: pageService}
}

// ShowRatingForm handles GET /rate/:agentId
func (h *RatingHandler) ShowRatingForm(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, err := h.pageService.LoadRatingPage(c.Request.Context(), actor, c.Param("agentId"))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotFound):
		redirectWithFlash(c, "/dashboard", FlashError, "Agent not found")
		return
	case errors.Is(err, services.ErrNotUnlocked):
		redirectWithFlash(c, "/dashboard", FlashError, "You can only rate agents you have unlocked")
		return
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("agent", c.Param("agentId")).Msg("failed to load rating form")
		redirectWithFlash(c, "/dashboard", FlashError, "Unable to load the rating form. Please try again.")
		return
	}

	c.HTML(http.StatusOK, "rate.html", gin.H{
		"Title":      "Rate " + page.Agent.Name,
		"Flash":      popFlash(c),
		"Agent":      page.Agent,
		"Properties": page.Properties,
		"Rated":      page.Rated,
	})
}

// SubmitRating handles POST /rate/:agentId
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	agentID := c.Param("agentId")
	back := "/rate/" + agentID

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var value *int
	if v, err := strconv.Atoi(strings.TrimSpace(c.PostForm("rating"))); err == nil {
		value = &v
	}

	_, err := h.ratingService.SubmitRating(c.Request.Context(), actor, agentID, c.PostForm("propertyId"), value, c.PostForm("comment"))
	switch {
	case err == nil:
		redirectWithFlash(c, "/dashboard", FlashSuccess, "Thank you, your rating has been submitted")
	case errors.Is(err, services.ErrInvalidRating):
		redirectWithFlash(c, back, FlashError, "Please choose a rating between 1 and 5")
	case errors.Is(err, services.ErrMissingField):
		redirectWithFlash(c, back, FlashError, "Please choose the property you are rating")
	case errors.Is(err, services.ErrDuplicateRating):
		redirectWithFlash(c, back, FlashError, "You have already rated this agent for this property")
	case errors.Is(err, services.ErrNotFound):
		redirectWithFlash(c, back, FlashError, "Agent not found")
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("agent", agentID).Msg("failed to submit rating")
		redirectWithFlash(c, back, FlashError, "Something went wrong. Please try again later.")
	}
}
