package deadline

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/handler"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/service/deadline"
	"github.com/jwalitptl/clinic-assistant/internal/service/event"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/httputil"
)

type Handler struct {
	service deadline.DeadlineService
	store   *store.Store
	events  *event.Service
}

func NewHandler(service deadline.DeadlineService, st *store.Store, events *event.Service) *Handler {
	return &Handler{service: service, store: st, events: events}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	deadlines := r.Group("/deadlines")
	{
		deadlines.POST("", h.CreateDeadline)
		deadlines.GET("", h.ListDeadlines)
		deadlines.GET("/:id", h.GetDeadline)
		deadlines.PUT("/:id", h.UpdateDeadline)
		deadlines.DELETE("/:id", h.DeleteDeadline)
	}
}

func (h *Handler) CreateDeadline(c *gin.Context) {
	var req model.CreateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateDeadline(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.recordChange(c, "deadline.created", created)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetDeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid deadline ID"))
		return
	}

	found, err := h.service.GetDeadline(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) UpdateDeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid deadline ID"))
		return
	}

	var req model.UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.UpdateDeadline(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.recordChange(c, "deadline.updated", updated)
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeleteDeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid deadline ID"))
		return
	}

	if err := h.service.DeleteDeadline(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.recordChange(c, "deadline.deleted", gin.H{"id": id})
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

// ListDeadlines lists all deadlines, or only those due on ?date= when the
// query parameter is present.
func (h *Handler) ListDeadlines(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		deadlines, err := h.service.GetDeadlinesByDate(c.Request.Context(), date)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, deadlines)
		return
	}

	page, pageSize := pagination(c)
	deadlines, err := h.service.ListDeadlines(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, deadlines, page, pageSize, len(deadlines))
}

func (h *Handler) recordChange(c *gin.Context, eventType string, payload interface{}) {
	ctx := c.Request.Context()
	h.store.Refresh(ctx, store.KindDeadline)
	h.events.Publish(ctx, eventType, payload)
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return page, pageSize
}
