package transport

import (
	"net/http"

	"github.com/ds124wfegd/bookit/internal/service"
	"github.com/ds124wfegd/bookit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

func (h *MaintenanceHandler) ScheduleMaintenance(c *gin.Context) {
	var req service.ScheduleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, event, err := h.maintenanceService.ScheduleMaintenance(c.Request.Context(), middleware.ActorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"service": record,
		"event":   event,
	})
}

func (h *MaintenanceHandler) GetEquipmentServices(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	records, err := h.maintenanceService.GetEquipmentServices(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *MaintenanceHandler) CompleteService(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Success *bool `json:"success" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.maintenanceService.CompleteService(c.Request.Context(), middleware.ActorID(c), id, *req.Success); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
