package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
	"github.com/ds124wfegd/bookit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(
	eventHandler *EventHandler,
	equipmentHandler *EquipmentHandler,
	ticketHandler *TicketHandler,
	messageHandler *MessageHandler,
	maintenanceHandler *MaintenanceHandler,
	userHandler *UserHandler,
) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// Публичная лента календаря — без аутентификации, это осознанное решение:
	// ленту читают инфо-экраны и внешние календари
	router.GET("/feed/:equipment", eventHandler.GetFeed)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.Identity())
	{
		// Booking routes
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.POST("/:id/cancel", eventHandler.CancelEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
		}

		// Calendar projection
		api.GET("/calendar/:equipment", eventHandler.GetMonthGrid)

		// Equipment routes
		equipment := api.Group("/equipment")
		{
			equipment.GET("", equipmentHandler.GetAll)
			equipment.GET("/:id", equipmentHandler.GetByID)
			equipment.POST("/:id/access-request", equipmentHandler.RequestAccess)
			equipment.POST("/:id/access", equipmentHandler.GrantAccess)
			equipment.PUT("/:id/status", equipmentHandler.SetStatus)
			equipment.GET("/:id/services", maintenanceHandler.GetEquipmentServices)
		}

		// Maintenance routes
		api.POST("/maintenance", maintenanceHandler.ScheduleMaintenance)
		api.PUT("/services/:id/complete", maintenanceHandler.CompleteService)

		// Ticket routes
		tickets := api.Group("/tickets")
		{
			tickets.POST("", ticketHandler.CreateTicket)
			tickets.GET("", ticketHandler.GetTickets)
			tickets.GET("/:id", ticketHandler.GetTicket)
			tickets.PUT("/:id/status", ticketHandler.SetStatus)
			tickets.PUT("/:id/priority", ticketHandler.SetPriority)
			tickets.POST("/:id/comments", ticketHandler.AddComment)
		}

		// Message board routes
		messages := api.Group("/messages")
		{
			messages.POST("", messageHandler.PostMessage)
			messages.GET("", messageHandler.GetAllMessages)
			messages.DELETE("/:id", messageHandler.DeleteMessage)
		}

		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.GET("", userHandler.GetAllUsers)
			users.GET("/:id", userHandler.GetUser)
		}
	}

	return router
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError переводит доменные ошибки в HTTP статусы
func respondError(c *gin.Context, err error) {
	var conflict *entity.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"error":     conflict.Error(),
			"conflicts": conflict.Conflicts,
		})
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, entity.ErrNotAuthorized), errors.Is(err, entity.ErrExpiredDelete):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrEquipmentNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrTicketNotFound),
		errors.Is(err, entity.ErrMessageNotFound),
		errors.Is(err, entity.ErrServiceNotFound):
		status = http.StatusNotFound
	}

	c.JSON(status, ErrorResponse{Success: false, Error: err.Error()})
}
