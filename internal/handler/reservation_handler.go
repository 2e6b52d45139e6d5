package handler

import (
	"context"
	"fmt"
	"net/http"

	"event-reservation/internal/auth"
	"event-reservation/internal/cache"
	"event-reservation/internal/model"
	"event-reservation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	service service.ReservationService
	tickets service.TicketService
}

func NewReservationHandler(service service.ReservationService, tickets service.TicketService) *ReservationHandler {
	return &ReservationHandler{service: service, tickets: tickets}
}

// RegisterRoutes user 群組需已套用 RequireAuth，admin 群組需已套用 RequireAdmin
func (h *ReservationHandler) RegisterRoutes(user, admin *gin.RouterGroup, limiter cache.RateLimiter) {
	{
		user.POST("/reservations", RateLimit(limiter), h.Create)
		user.GET("/me/reservations", h.ListMine)
		user.PATCH("/reservations/:id/cancel", h.CancelByUser)
		user.GET("/reservations/:id/ticket", h.Ticket)
	}
	{
		admin.GET("/reservations", h.ListAll)
		admin.GET("/events/:id/reservations", h.ListByEvent)
		admin.PATCH("/reservations/:id/confirm", h.Confirm)
		admin.PATCH("/reservations/:id/refuse", h.Refuse)
		admin.PATCH("/reservations/:id/cancel", h.CancelByAdmin)
		admin.GET("/stats/reservations", h.Stats)
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req model.CreateReservationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), principal(c), eventID)
	if err != nil {
		handleError(c, err, "CreateReservation")
		return
	}
	c.JSON(http.StatusCreated, model.ReservationResponse{ID: created.ID, Status: created.Status})
}

func (h *ReservationHandler) ListMine(c *gin.Context) {
	reservations, err := h.service.ListMine(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "ListMyReservations")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) ListAll(c *gin.Context) {
	reservations, err := h.service.ListAll(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "ListReservations")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) ListByEvent(c *gin.Context) {
	eventID, ok := ParseID(c, "id")
	if !ok {
		return
	}
	reservations, err := h.service.ListByEvent(c.Request.Context(), principal(c), eventID)
	if err != nil {
		handleError(c, err, "ListEventReservations")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

type transitionFunc func(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Reservation, error)

// transition 處理確認、拒絕、取消這類只需要 id 的狀態變更
func (h *ReservationHandler) transition(c *gin.Context, fn transitionFunc, operation string) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	updated, err := fn(c.Request.Context(), principal(c), id)
	if err != nil {
		handleError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm, "ConfirmReservation")
}

func (h *ReservationHandler) Refuse(c *gin.Context) {
	h.transition(c, h.service.Refuse, "RefuseReservation")
}

func (h *ReservationHandler) CancelByAdmin(c *gin.Context) {
	h.transition(c, h.service.CancelByAdmin, "AdminCancelReservation")
}

func (h *ReservationHandler) CancelByUser(c *gin.Context) {
	h.transition(c, h.service.CancelByUser, "CancelReservation")
}

func (h *ReservationHandler) Ticket(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.tickets.RenderTicket(c.Request.Context(), principal(c), id)
	if err != nil {
		handleError(c, err, "Ticket")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func (h *ReservationHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "ReservationStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
