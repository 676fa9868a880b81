package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ds124wfegd/bookit/internal/calendar"
	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type eventService struct {
	eventRepo     repository.EventRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	queue         TaskPublisher
}

// NewEventService создает новый экземпляр EventService
func NewEventService(
	eventRepo repository.EventRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) EventService {
	return &eventService{
		eventRepo:     eventRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		queue:         queue,
	}
}

// CreateEvent создает новую бронь. Проверка доступа идет до валидации
// интервала: чужое оборудование — жесткий отказ.
func (s *eventService) CreateEvent(ctx context.Context, actorID int64, req *CreateEventRequest) (*entity.Event, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	// Допущены: суперпользователь, администратор оборудования и список доступа
	if !actor.IsPrivileged() && actor.ID != equipment.AdminID && !equipment.IsAuthorized(actor.ID) {
		return nil, entity.ErrNotAuthorized
	}

	// Суперпользователь может бронировать от имени другого пользователя
	ownerID := actorID
	if req.UserID != 0 && actor.IsPrivileged() {
		ownerID = req.UserID
	}

	status := entity.EventStatusActive
	if req.Status != "" {
		status = entity.EventStatus(req.Status)
		if status != entity.EventStatusActive && status != entity.EventStatusHold {
			return nil, fmt.Errorf("%w: недопустимый статус %q", entity.ErrInvalidInput, req.Status)
		}
	}

	event := &entity.Event{
		UserID:      ownerID,
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      status,
		Notes:       req.Notes,
		Disassemble: req.Disassemble,
	}
	event.ElapsedHours = event.Elapsed()

	canceled, err := s.eventRepo.SaveWithConflictCheck(ctx, event, nil, actor.IsPrivileged())
	if err != nil {
		return nil, err
	}

	saveType := entity.ClassifySave(event, nil, actor.IsPrivileged())
	s.publishSaveNotifications(ctx, saveType, event, equipment, actor, canceled)

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// UpdateEvent изменяет бронь. Владелец правит свою, суперпользователь — любую.
func (s *eventService) UpdateEvent(ctx context.Context, actorID, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	prior, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsPrivileged() && prior.UserID != actorID {
		return nil, entity.ErrNotAuthorized
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, prior.EquipmentID)
	if err != nil {
		return nil, err
	}

	updated := *prior
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = *req.EndTime
	}
	if req.Status != nil {
		status := entity.EventStatus(*req.Status)
		if status != entity.EventStatusActive && status != entity.EventStatusHold && status != entity.EventStatusCanceled {
			return nil, fmt.Errorf("%w: недопустимый статус %q", entity.ErrInvalidInput, *req.Status)
		}
		updated.Status = status
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.Disassemble != nil {
		updated.Disassemble = *req.Disassemble
	}
	updated.ElapsedHours = updated.Elapsed()

	canceled, err := s.eventRepo.SaveWithConflictCheck(ctx, &updated, prior, actor.IsPrivileged())
	if err != nil {
		return nil, err
	}

	saveType := entity.ClassifySave(&updated, prior, actor.IsPrivileged())
	s.publishSaveNotifications(ctx, saveType, &updated, equipment, actor, canceled)

	return &updated, nil
}

// CancelEvent — отмена брони через обычный путь сохранения
func (s *eventService) CancelEvent(ctx context.Context, actorID, id int64) error {
	status := string(entity.EventStatusCanceled)
	_, err := s.UpdateEvent(ctx, actorID, id, &UpdateEventRequest{Status: &status})
	return err
}

// DeleteEvent удаляет бронь совсем. Только для суперпользователя, истекшие
// брони остаются как история использования.
func (s *eventService) DeleteEvent(ctx context.Context, actorID, id int64) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return entity.ErrNotAuthorized
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.Expired {
		return entity.ErrExpiredDelete
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, event.EquipmentID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	if event.UserID != actorID {
		publishTask(ctx, s.queue, newNotifyTask(NotifyBookingDeleted, RecipientOwner, taskData(event, equipment, actor.Username)))
	}
	return nil
}

// GetMonthGrid строит календарную сетку месяца для оборудования
func (s *eventService) GetMonthGrid(ctx context.Context, equipmentID int64, year int, month time.Month) (*calendar.MonthGrid, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.GetByEquipmentMonth(ctx, equipmentID, year, month)
	if err != nil {
		return nil, err
	}

	owners, err := s.ownerLabels(ctx, events)
	if err != nil {
		return nil, err
	}

	return calendar.BuildMonth(events, owners, year, month, equipment.Status, time.Now()), nil
}

// GetFeed отдает публичную ленту броней оборудования в формате fullcalendar
func (s *eventService) GetFeed(ctx context.Context, equipmentName string) (*FeedResponse, error) {
	equipment, err := s.equipmentRepo.GetByName(ctx, equipmentName)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.GetByEquipment(ctx, equipment.ID)
	if err != nil {
		return nil, err
	}

	owners, err := s.ownerLabels(ctx, events)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	feed := &FeedResponse{Success: 1, Result: make([]*FeedEntry, 0, len(events))}
	for _, ev := range events {
		url := ev.AdminURL()
		if ev.Expired || ev.Status == entity.EventStatusCanceled || ev.EndTime.Before(now) {
			url = "#"
		}
		feed.Result = append(feed.Result, &FeedEntry{
			ID:      ev.ID,
			Title:   owners[ev.UserID],
			URL:     url,
			Status:  string(ev.Status),
			Expired: ev.Expired,
			Start:   ev.StartTimestamp(),
			End:     ev.EndTimestamp(),
		})
	}
	return feed, nil
}

// ExpireEvents помечает завершившиеся брони как истекшие
func (s *eventService) ExpireEvents(ctx context.Context) (int64, error) {
	return s.eventRepo.MarkExpired(ctx, time.Now())
}

// SendMorningReminders ставит в очередь напоминания о бронях на завтра
func (s *eventService) SendMorningReminders(ctx context.Context) (int, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	events, err := s.eventRepo.GetStartingBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	equipmentNames := make(map[int64]string)
	count := 0
	for _, ev := range events {
		name, ok := equipmentNames[ev.EquipmentID]
		if !ok {
			eq, err := s.equipmentRepo.GetByID(ctx, ev.EquipmentID)
			if err != nil {
				logrus.Errorf("Failed to get equipment %d for reminder: %v", ev.EquipmentID, err)
				continue
			}
			name = eq.Name
			equipmentNames[ev.EquipmentID] = name
		}

		data := map[string]interface{}{
			"event_id":       ev.ID,
			"user_id":        ev.UserID,
			"equipment_id":   ev.EquipmentID,
			"equipment_name": name,
			"start_time":     ev.StartTime.Format(time.RFC3339),
			"end_time":       ev.EndTime.Format(time.RFC3339),
		}
		if err := publishTask(ctx, s.queue, newNotifyTask(NotifyEventReminder, RecipientOwner, data)); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// publishSaveNotifications переводит классификацию сохранения в уведомления.
// Доставка не влияет на судьбу брони: сбои только логируются.
func (s *eventService) publishSaveNotifications(ctx context.Context, saveType entity.SaveEventType, event *entity.Event, equipment *entity.Equipment, actor *entity.User, canceled []*entity.Event) {
	data := taskData(event, equipment, actor.Username)

	switch saveType {
	case entity.SaveNewBooking:
		publishTask(ctx, s.queue, newNotifyTask(NotifyNewBooking, RecipientAdmins, data))
	case entity.SaveMaintenanceScheduled:
		publishTask(ctx, s.queue, newNotifyTask(NotifyMaintenanceScheduled, RecipientEquipmentUsers, data))
	case entity.SaveBookingCanceled:
		publishTask(ctx, s.queue, newNotifyTask(NotifyBookingCanceled, RecipientAdmins, data))
	case entity.SaveBookingRescheduled:
		publishTask(ctx, s.queue, newNotifyTask(NotifyBookingRescheduled, RecipientAdmins, data))
	}

	// Вытесненные конфликты: каждому владельцу отдельное уведомление
	for _, victim := range canceled {
		victimData := taskData(event, equipment, actor.Username)
		victimData["user_id"] = victim.UserID
		victimData["start_time"] = victim.StartTime.Format(time.RFC3339)
		victimData["end_time"] = victim.EndTime.Format(time.RFC3339)
		publishTask(ctx, s.queue, newNotifyTask(NotifyMaintenanceCancellation, RecipientOwner, victimData))
	}
}

func newNotifyTask(category, recipients string, data map[string]interface{}) *Task {
	data["category"] = category
	data["recipients"] = recipients
	return &Task{
		ID:        uuid.NewString(),
		Type:      TaskTypeSendNotification,
		Data:      data,
		ExecuteAt: time.Now(),
	}
}

func publishTask(ctx context.Context, q TaskPublisher, task *Task) error {
	if q == nil {
		return nil
	}
	if err := q.Publish(ctx, task); err != nil {
		logrus.Errorf("Failed to publish notification task: %v", err)
		return err
	}
	return nil
}

func (s *eventService) ownerLabels(ctx context.Context, events []*entity.Event) (map[int64]string, error) {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, ev := range events {
		if !seen[ev.UserID] {
			seen[ev.UserID] = true
			ids = append(ids, ev.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	labels := make(map[int64]string, len(users))
	for _, u := range users {
		labels[u.ID] = u.Username
	}
	return labels, nil
}

func taskData(event *entity.Event, equipment *entity.Equipment, username string) map[string]interface{} {
	return map[string]interface{}{
		"event_id":       event.ID,
		"user_id":        event.UserID,
		"equipment_id":   event.EquipmentID,
		"equipment_name": equipment.Name,
		"username":       username,
		"start_time":     event.StartTime.Format(time.RFC3339),
		"end_time":       event.EndTime.Format(time.RFC3339),
		"url":            event.AdminURL(),
	}
}
