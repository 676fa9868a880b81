package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ds124wfegd/bookit/internal/service"
	"github.com/ds124wfegd/bookit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), middleware.ActorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), middleware.ActorID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CancelEvent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.eventService.CancelEvent(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "event canceled"})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "event deleted"})
}

// GetMonthGrid отдает календарную сетку месяца. Без year/month — текущий месяц.
func (h *EventHandler) GetMonthGrid(c *gin.Context) {
	equipmentID, err := parseID(c, "equipment")
	if err != nil {
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
	}

	grid, err := h.eventService.GetMonthGrid(c.Request.Context(), equipmentID, year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

// GetFeed — публичная лента броней оборудования по имени
func (h *EventHandler) GetFeed(c *gin.Context) {
	feed, err := h.eventService.GetFeed(c.Request.Context(), c.Param("equipment"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// parseID достает числовой параметр пути, сам отвечает 400 при мусоре
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
