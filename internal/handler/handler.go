package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/domain"
	"github.com/evcal/event-lifecycle-service/internal/dto"
	"github.com/evcal/event-lifecycle-service/internal/ics"
	"github.com/evcal/event-lifecycle-service/internal/service"
)

type Handler struct {
	lifecycle service.LifecycleServicer
	router    *gin.Engine
	log       *zap.Logger
}

func NewHandler(lifecycle service.LifecycleServicer, log *zap.Logger) *Handler {
	h := &Handler{
		lifecycle: lifecycle,
		router:    gin.Default(),
		log:       log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/parse", h.parse)
	h.router.GET("/proposed-events", h.listPending)
	h.router.GET("/proposed-events/:id", h.getProposal)
	h.router.POST("/proposed-events/:id/confirm", h.confirm)
	h.router.POST("/proposed-events/:id/reject", h.reject)
	h.router.GET("/events", h.listEvents)
	h.router.GET("/events/calendar.ics", h.exportCalendar)
	h.router.GET("/events/:id", h.getEvent)
	h.router.GET("/events/:id/timeline", h.eventTimeline)
	h.router.POST("/events/:id/share", h.shareEvent)
	h.router.POST("/tick", h.tick)
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrIllegalTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "illegal_transition",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_interval",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrParseFailure):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "parse_failure",
			Message: err.Error(),
		})
	default:
		h.log.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parse handles POST /parse: free text in, stored pending proposal out.
func (h *Handler) parse(c *gin.Context) {
	var req dto.ParseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid parse request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	pr, err := h.lifecycle.SubmitText(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Info("Proposal created",
		zap.String("parse_response_id", pr.ID),
		zap.Int("conflicts", len(pr.Conflicts)))

	c.JSON(http.StatusCreated, pr)
}

// listPending handles GET /proposed-events
func (h *Handler) listPending(c *gin.Context) {
	pending, err := h.lifecycle.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// getProposal handles GET /proposed-events/:id
func (h *Handler) getProposal(c *gin.Context) {
	pr, err := h.lifecycle.GetProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pr)
}

// confirm handles POST /proposed-events/:id/confirm
func (h *Handler) confirm(c *gin.Context) {
	var req dto.ConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid confirm request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.lifecycle.ConfirmProposal(c.Request.Context(), c.Param("id"), req.ProposedEvent.ToDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// reject handles POST /proposed-events/:id/reject
func (h *Handler) reject(c *gin.Context) {
	pr, err := h.lifecycle.RejectProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pr)
}

// listEvents handles GET /events
func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.lifecycle.ListEvents(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// getEvent handles GET /events/:id
func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.lifecycle.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// eventTimeline handles GET /events/:id/timeline
func (h *Handler) eventTimeline(c *gin.Context) {
	entries, err := h.lifecycle.EventTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// shareEvent handles POST /events/:id/share
func (h *Handler) shareEvent(c *gin.Context) {
	var req dto.ShareRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid share request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.lifecycle.ShareEvent(c.Request.Context(), c.Param("id"), req.Targets)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewShareResponse(event))
}

// tick handles POST /tick: advances the simulated clock and fires due
// reminders. Without an explicit now the wall clock is used.
func (h *Handler) tick(c *gin.Context) {
	var req dto.TickRequest

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Warn("Invalid tick request", zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}
	}

	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	fired, current, err := h.lifecycle.AdvanceClock(c.Request.Context(), now)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if fired == nil {
		fired = []domain.Reminder{}
	}
	c.JSON(http.StatusOK, dto.TickResponse{
		Time:           current,
		RemindersFired: fired,
	})
}

// exportCalendar handles GET /events/calendar.ics
func (h *Handler) exportCalendar(c *gin.Context) {
	events, err := h.lifecycle.ListEvents(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics.Render(events)))
}
