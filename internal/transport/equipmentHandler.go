package transport

import (
	"net/http"

	"github.com/ds124wfegd/bookit/internal/service"
	"github.com/ds124wfegd/bookit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	equipmentService service.EquipmentService
}

func NewEquipmentHandler(equipmentService service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

func (h *EquipmentHandler) GetAll(c *gin.Context) {
	list, err := h.equipmentService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetByID отдает оборудование вместе с ближайшей бронью
func (h *EquipmentHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	equipment, err := h.equipmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := h.equipmentService.NextBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"equipment":    equipment,
		"next_booking": next,
	})
}

func (h *EquipmentHandler) RequestAccess(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.equipmentService.RequestAccess(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "access request sent"})
}

func (h *EquipmentHandler) GrantAccess(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.equipmentService.GrantAccess(c.Request.Context(), middleware.ActorID(c), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "access granted"})
}

func (h *EquipmentHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Online *bool `json:"online" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.equipmentService.SetStatus(c.Request.Context(), middleware.ActorID(c), id, *req.Online); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
