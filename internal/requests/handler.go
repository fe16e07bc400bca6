package requests

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/auth"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reqs := rg.Group("/requests")
	{
		reqs.POST("", h.Create)
		reqs.GET("", h.List)
		reqs.GET("/:id", h.Get)
		reqs.GET("/:id/transitions", h.AllowedTransitions)
		reqs.POST("/:id/transition", h.Transition)
		reqs.POST("/:id/assign", h.Assign)
		reqs.PUT("/:id/priority", h.SetPriority)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		Priority    workflow.Priority `json:"priority"`
		Submit      bool              `json:"submit"`
		RequesterID *uuid.UUID        `json:"requester_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.Create(c.Request.Context(), actor, CreateInput{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Submit:      body.Submit,
		RequesterID: body.RequesterID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	filter := Filter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []workflow.Status{workflow.Status(status)}
	}

	// Listing is role-scoped: requesters see their own requests, designers
	// their assignments (or the unclaimed submitted pool with ?available),
	// admins everything.
	switch actor.Role {
	case workflow.RoleRequester:
		filter.RequesterID = &actor.ID
	case workflow.RoleDesigner:
		if c.Query("available") == "true" {
			filter.Statuses = []workflow.Status{workflow.StatusSubmitted}
			filter.Unassigned = true
		} else {
			filter.DesignerID = &actor.ID
		}
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	req, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

func (h *Handler) AllowedTransitions(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	statuses, err := h.service.AllowedTransitions(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": statuses})
}

func (h *Handler) Transition(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		TargetStatus  workflow.Status `json:"target_status" binding:"required"`
		PublishedLink string          `json:"published_link"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.TargetStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target status"})
		return
	}

	req, err := h.service.Transition(c.Request.Context(), actor, id, body.TargetStatus, body.PublishedLink)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

func (h *Handler) Assign(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		DesignerID uuid.UUID `json:"designer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.AssignDesigner(c.Request.Context(), actor, id, body.DesignerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

func (h *Handler) SetPriority(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		Priority workflow.Priority `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.SetPriority(c.Request.Context(), actor, id, body.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// respondError maps workflow denials to the 4xx class and everything else
// to a 500 with the reason string surfaced.
func respondError(c *gin.Context, err error) {
	switch workflow.CodeOf(err) {
	case workflow.CodeAccessDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case workflow.CodeInvalidTransition, workflow.CodeMissingPublishedLink:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case workflow.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
