package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"
)

// EmailSender интерфейс для отправки почты
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TelegramBot интерфейс для Telegram бота
type TelegramBot interface {
	SendMessage(chatID, text string) error
}

// TaskHandler обрабатывает задачи из очереди: разворачивает селектор
// получателей в конкретных пользователей и доставляет уведомление по
// доступным каналам.
type TaskHandler struct {
	userRepo      repository.UserRepository
	equipmentRepo repository.EquipmentRepository
	eventRepo     repository.EventRepository
	email         EmailSender
	telegramBot   TelegramBot
	baseURL       string
}

// NewTaskHandler создает новый обработчик задач
func NewTaskHandler(
	userRepo repository.UserRepository,
	equipmentRepo repository.EquipmentRepository,
	eventRepo repository.EventRepository,
	email EmailSender,
	telegramBot TelegramBot,
	baseURL string,
) *TaskHandler {
	return &TaskHandler{
		userRepo:      userRepo,
		equipmentRepo: equipmentRepo,
		eventRepo:     eventRepo,
		email:         email,
		telegramBot:   telegramBot,
		baseURL:       baseURL,
	}
}

// HandleTask обрабатывает задачу
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Обработка задачи %s типа %s (попытка %d/%d)",
		task.ID, task.Type, task.Attempts, task.MaxRetries)

	switch task.Type {
	case TaskTypeSendNotification, TaskTypeEventReminder:
		return h.handleNotification(task)
	default:
		return fmt.Errorf("неизвестный тип задачи: %s", task.Type)
	}
}

func (h *TaskHandler) handleNotification(task *Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	category := task.GetString("category")
	if category == "" {
		return fmt.Errorf("invalid task: category is required")
	}

	recipients, err := h.resolveRecipients(ctx, task)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		log.Printf("Задача %s: нет получателей, пропускаем", task.ID)
		return nil
	}

	subject, body, err := h.composeMessage(category, task)
	if err != nil {
		return err
	}

	var lastErr error
	for _, user := range recipients {
		if err := h.deliver(ctx, user, subject, body); err != nil {
			log.Printf("Не удалось доставить уведомление пользователю %d: %v", user.ID, err)
			lastErr = err
		}
	}
	return lastErr
}

// resolveRecipients разворачивает селектор получателей в список пользователей
func (h *TaskHandler) resolveRecipients(ctx context.Context, task *Task) ([]*entity.User, error) {
	selector := task.GetString("recipients")

	switch selector {
	case RecipientOwner:
		userID := task.GetInt64("user_id")
		if userID == 0 {
			return nil, fmt.Errorf("invalid task: user_id is required for owner recipient")
		}
		user, err := h.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return []*entity.User{user}, nil

	case RecipientEquipmentUsers:
		equipmentID := task.GetInt64("equipment_id")
		if equipmentID == 0 {
			return nil, fmt.Errorf("invalid task: equipment_id is required for equipment_users recipient")
		}
		eq, err := h.equipmentRepo.GetByID(ctx, equipmentID)
		if err != nil {
			return nil, err
		}
		return h.userRepo.GetByIDs(ctx, eq.UserIDs)

	case RecipientAdmins:
		// Суперпользователи плюс администратор оборудования, без дублей
		admins, err := h.userRepo.GetSuperusers(ctx)
		if err != nil {
			return nil, err
		}
		equipmentID := task.GetInt64("equipment_id")
		if equipmentID == 0 {
			return admins, nil
		}
		eq, err := h.equipmentRepo.GetByID(ctx, equipmentID)
		if err != nil {
			return nil, err
		}
		for _, u := range admins {
			if u.ID == eq.AdminID {
				return admins, nil
			}
		}
		owner, err := h.userRepo.GetByID(ctx, eq.AdminID)
		if err != nil {
			return admins, nil
		}
		return append(admins, owner), nil

	case RecipientAllUsers:
		return h.userRepo.GetAll(ctx)

	default:
		return nil, fmt.Errorf("unknown recipient selector: %s", selector)
	}
}

// composeMessage собирает тему и текст письма по категории уведомления.
// Данные берутся из задачи, чтобы не зависеть от текущего состояния базы.
func (h *TaskHandler) composeMessage(category string, task *Task) (string, string, error) {
	equipmentName := task.GetString("equipment_name")
	username := task.GetString("username")
	start := task.GetTime("start_time")
	end := task.GetTime("end_time")
	interval := fmt.Sprintf("%s - %s", start.Format("02.01.2006 15:04"), end.Format("02.01.2006 15:04"))

	switch category {
	case NotifyNewBooking:
		return fmt.Sprintf("New booking: %s", equipmentName),
			fmt.Sprintf("%s booked %s\n%s\n%s%s",
				username, equipmentName, interval, h.baseURL, task.GetString("url")),
			nil

	case NotifyMaintenanceScheduled:
		return fmt.Sprintf("Maintenance scheduled: %s", equipmentName),
			fmt.Sprintf("%s is down for maintenance\n%s\nJob: %s",
				equipmentName, interval, task.GetString("job")),
			nil

	case NotifyBookingCanceled:
		return fmt.Sprintf("Booking canceled: %s", equipmentName),
			fmt.Sprintf("%s canceled a booking of %s\n%s", username, equipmentName, interval),
			nil

	case NotifyBookingRescheduled:
		return fmt.Sprintf("Booking rescheduled: %s", equipmentName),
			fmt.Sprintf("%s moved a booking of %s\nNew time: %s", username, equipmentName, interval),
			nil

	case NotifyMaintenanceCancellation:
		return fmt.Sprintf("Your booking was canceled: %s", equipmentName),
			fmt.Sprintf("Your booking of %s (%s) was canceled because maintenance was scheduled for that time.",
				equipmentName, interval),
			nil

	case NotifyBookingDeleted:
		return fmt.Sprintf("Booking removed: %s", equipmentName),
			fmt.Sprintf("Your booking of %s (%s) was removed by an administrator.", equipmentName, interval),
			nil

	case NotifyEquipmentOffline:
		return fmt.Sprintf("Equipment offline: %s", equipmentName),
			fmt.Sprintf("%s was taken offline. Your upcoming booking (%s) may be affected.",
				equipmentName, interval),
			nil

	case NotifyAccessGranted:
		return fmt.Sprintf("Access granted: %s", equipmentName),
			fmt.Sprintf("You can now book %s.\n%s%s",
				equipmentName, h.baseURL, task.GetString("url")),
			nil

	case NotifyEventReminder:
		return fmt.Sprintf("Reminder: %s tomorrow", equipmentName),
			fmt.Sprintf("You have %s booked tomorrow\n%s", equipmentName, interval),
			nil

	case NotifyTicketCreated:
		return fmt.Sprintf("New ticket: %s", equipmentName),
			fmt.Sprintf("%s filed a ticket for %s:\n%s\n%s%s",
				username, equipmentName, task.GetString("msg"), h.baseURL, task.GetString("url")),
			nil

	case NotifyTicketStatus:
		return fmt.Sprintf("Ticket %s: %s", task.GetString("status"), equipmentName),
			fmt.Sprintf("Ticket #%d for %s is now %s.",
				task.GetInt64("ticket_id"), equipmentName, task.GetString("status")),
			nil

	case NotifyNewMessage:
		subject := "New board message"
		if task.GetString("critical") == "true" {
			subject = "IMPORTANT: new board message"
		}
		return subject,
			fmt.Sprintf("%s posted:\n%s\n%s%s",
				username, task.GetString("msg"), h.baseURL, task.GetString("url")),
			nil

	default:
		return "", "", fmt.Errorf("unknown notification category: %s", category)
	}
}

func (h *TaskHandler) deliver(ctx context.Context, user *entity.User, subject, body string) error {
	delivered := false

	if user.Email != "" && h.email != nil {
		if err := h.email.Send(ctx, user.Email, subject, body); err != nil {
			return fmt.Errorf("email delivery failed: %v", err)
		}
		delivered = true
	}

	if user.TelegramID != "" && h.telegramBot != nil {
		if err := h.telegramBot.SendMessage(user.TelegramID, subject+"\n\n"+body); err != nil {
			// Телеграм — дополнительный канал, почты достаточно
			log.Printf("Telegram delivery failed for user %d: %v", user.ID, err)
		} else {
			delivered = true
		}
	}

	if !delivered {
		log.Printf("Пользователь %d без каналов доставки, уведомление пропущено", user.ID)
	}
	return nil
}
