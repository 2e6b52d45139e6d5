package handler

import (
	"net/http"
	"time"

	"event-reservation/internal/model"
	"event-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterRoutes 公開路由掛在 public，管理路由掛在已套用 RequireAdmin 的 admin
func (h *EventHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	{
		public.GET("/events", h.ListPublished)
		public.GET("/events/:id", h.GetPublished)
	}
	{
		admin.GET("/events", h.ListAll)
		admin.GET("/events/:id", h.GetAny)
		admin.POST("/events", h.Create)
		admin.PATCH("/events/:id", h.Update)
		admin.DELETE("/events/:id", h.Cancel)
		admin.GET("/stats/events", h.Stats)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	DateTime    time.Time `json:"date_time" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,gte=1"`
}

// UpdateEventRequest 更新活動請求，所有欄位皆可省略但至少要有一個
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"date_time"`
	Location    *string    `json:"location"`
	Capacity    *int       `json:"capacity" binding:"omitempty,gte=1"`
	Status      *string    `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CANCELED"`
}

func (r UpdateEventRequest) params() model.UpdateEventParams {
	params := model.UpdateEventParams{
		Title:       r.Title,
		Description: r.Description,
		DateTime:    r.DateTime,
		Location:    r.Location,
		Capacity:    r.Capacity,
	}
	if r.Status != nil {
		status := model.EventStatus(*r.Status)
		params.Status = &status
	}
	return params
}

func (h *EventHandler) ListPublished(c *gin.Context) {
	events, err := h.service.ListPublished(c.Request.Context())
	if err != nil {
		handleError(c, err, "ListPublished")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetPublished(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "GetPublished")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.service.ListAll(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "ListAll")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetAny(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetAny(c.Request.Context(), principal(c), id)
	if err != nil {
		handleError(c, err, "GetAny")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateDraft(c.Request.Context(), principal(c), model.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Capacity:    req.Capacity,
	})
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := req.params()
	if params.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), principal(c), id, params)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	canceled, err := h.service.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		handleError(c, err, "CancelEvent")
		return
	}
	c.JSON(http.StatusOK, canceled)
}

func (h *EventHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "EventStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
