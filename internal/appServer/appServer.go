package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/bookit/config"
	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/service"
	"github.com/ds124wfegd/bookit/internal/transport"
	"github.com/ds124wfegd/bookit/internal/worker"

	"github.com/ds124wfegd/bookit/pkg/email"
	"github.com/ds124wfegd/bookit/pkg/postgres"
	"github.com/ds124wfegd/bookit/pkg/queue"
	"github.com/ds124wfegd/bookit/pkg/redis"
	"github.com/ds124wfegd/bookit/pkg/scheduler"
	"github.com/ds124wfegd/bookit/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12}, // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot token not provided, telegram notifications disabled")
	}

	// Initialize email client
	var emailClient *email.Client
	if cfg.Email.Enabled {
		emailClient = email.NewClient(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.From)
		logrus.Info("Email client initialized")
	} else {
		logrus.Warn("Email disabled, mail notifications will be skipped")
	}

	// Initialize notification queue
	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher

	redisConfig := queue.DefaultRedisQueueConfig()
	redisConfig.Addr = fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisConfig.Password = cfg.Redis.Password
	redisConfig.DB = cfg.Redis.DB

	retryManager := queue.NewRetryManager(redisConfig.MaxRetries, redisConfig.BaseDelay)
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()
	dlqHandler := queue.NewDefaultDLQHandler(redisClient, redisConfig.DLQ)

	redisQueue, err = queue.NewRedisQueue(redisConfig, retryManager, dlqHandler)
	if err != nil {
		logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
		redisQueue = nil
	} else {
		logrus.Info("Redis queue initialized")
		// Создаем адаптер для очереди
		taskPublisher = service.NewQueueAdapter(redisQueue)
	}

	// Initialize services
	eventService := service.NewEventService(eventRepo, equipmentRepo, userRepo, taskPublisher)
	equipmentService := service.NewEquipmentService(equipmentRepo, eventRepo, userRepo, taskPublisher)
	ticketService := service.NewTicketService(ticketRepo, equipmentRepo, userRepo, taskPublisher)
	messageService := service.NewMessageService(messageRepo, userRepo, taskPublisher)
	maintenanceService := service.NewMaintenanceService(serviceRepo, eventRepo, equipmentRepo, userRepo, taskPublisher)
	userService := service.NewUserService(userRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize task handler if queue is available
	if redisQueue != nil {
		var emailSender queue.EmailSender
		if emailClient != nil {
			emailSender = emailClient
		}
		var bot queue.TelegramBot
		if telegramBot != nil {
			bot = telegramBot
		}
		taskHandler := queue.NewTaskHandler(userRepo, equipmentRepo, eventRepo, emailSender, bot, cfg.App.BaseURL)

		// Start queue consumer
		go func() {
			if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
				logrus.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logrus.Info("Queue subscriber started")
	}

	// Initialize and start expiry scheduler
	expiryScheduler := scheduler.NewScheduler(eventService, time.Duration(cfg.Worker.CleanupInterval)*time.Minute)
	go expiryScheduler.Start(ctx)
	logrus.Info("Expiry scheduler started")

	// Initialize morning reminder worker
	reminderWorker := worker.NewReminderWorker(eventService, cfg.Worker.ReminderHour)
	go reminderWorker.Start(ctx)
	logrus.Info("Reminder worker started")

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService)
	equipmentHandler := transport.NewEquipmentHandler(equipmentService)
	ticketHandler := transport.NewTicketHandler(ticketService)
	messageHandler := transport.NewMessageHandler(messageService)
	maintenanceHandler := transport.NewMaintenanceHandler(maintenanceService)
	userHandler := transport.NewUserHandler(userService)

	// Setup HTTP server
	if cfg.IsProduction() || cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		router := transport.InitRoutes(eventHandler, equipmentHandler, ticketHandler, messageHandler, maintenanceHandler, userHandler)
		if err := srv.Run(cfg, router); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	cancel()

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutdown: %s", err.Error())
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
