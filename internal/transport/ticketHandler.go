package transport

import (
	"net/http"

	"github.com/ds124wfegd/bookit/internal/service"
	"github.com/ds124wfegd/bookit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketService service.TicketService
}

func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req service.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), middleware.ActorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	details, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.ticketService.GetTickets(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Closed *bool `json:"closed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ticketService.SetTicketStatus(c.Request.Context(), middleware.ActorID(c), id, *req.Closed); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TicketHandler) SetPriority(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Priority *bool `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ticketService.SetTicketPriority(c.Request.Context(), middleware.ActorID(c), id, *req.Priority); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TicketHandler) AddComment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Msg string `json:"msg" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.ticketService.AddComment(c.Request.Context(), middleware.ActorID(c), id, req.Msg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
