package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"

	"github.com/sirupsen/logrus"
)

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	eventRepo     repository.EventRepository
	userRepo      repository.UserRepository
	queue         TaskPublisher
}

// NewEquipmentService создает новый экземпляр EquipmentService
func NewEquipmentService(
	equipmentRepo repository.EquipmentRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		queue:         queue,
	}
}

func (s *equipmentService) GetAll(ctx context.Context) ([]*entity.Equipment, error) {
	return s.equipmentRepo.GetAll(ctx)
}

func (s *equipmentService) GetByID(ctx context.Context, id int64) (*entity.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

// NextBooking возвращает ближайшую живую бронь оборудования, nil если календарь свободен
func (s *equipmentService) NextBooking(ctx context.Context, equipmentID int64) (*entity.Event, error) {
	return s.eventRepo.GetNextBooking(ctx, equipmentID, time.Now())
}

// RequestAccess — заявка на доступ к оборудованию, уходит администраторам
func (s *equipmentService) RequestAccess(ctx context.Context, actorID, equipmentID int64) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}

	if equipment.IsAuthorized(actor.ID) {
		return nil // доступ уже есть
	}

	data := map[string]interface{}{
		"equipment_id":   equipment.ID,
		"equipment_name": equipment.Name,
		"username":       actor.Username,
		"msg":            fmt.Sprintf("%s requests access to %s", actor.Username, equipment.Name),
		"url":            equipment.AdminURL(),
	}
	return publishTask(ctx, s.queue, newNotifyTask(NotifyTicketCreated, RecipientAdmins, data))
}

// GrantAccess выдает доступ. Только суперпользователь.
func (s *equipmentService) GrantAccess(ctx context.Context, actorID, equipmentID, userID int64) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return entity.ErrNotAuthorized
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}

	if err := s.equipmentRepo.AddUser(ctx, equipmentID, userID); err != nil {
		return err
	}

	data := map[string]interface{}{
		"user_id":        userID,
		"equipment_id":   equipmentID,
		"equipment_name": equipment.Name,
		"url":            equipment.AdminURL(),
	}
	publishTask(ctx, s.queue, newNotifyTask(NotifyAccessGranted, RecipientOwner, data))
	return nil
}

// SetStatus включает или выключает оборудование. Только суперпользователь.
// При выключении владелец ближайшей брони получает предупреждение.
func (s *equipmentService) SetStatus(ctx context.Context, actorID, equipmentID int64, online bool) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return entity.ErrNotAuthorized
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}

	if err := s.equipmentRepo.SetStatus(ctx, equipmentID, online); err != nil {
		return err
	}

	if !online {
		next, err := s.eventRepo.GetNextBooking(ctx, equipmentID, time.Now())
		if err != nil {
			logrus.Errorf("Failed to get next booking for equipment %d: %v", equipmentID, err)
			return nil
		}
		if next != nil {
			data := map[string]interface{}{
				"event_id":       next.ID,
				"user_id":        next.UserID,
				"equipment_id":   equipmentID,
				"equipment_name": equipment.Name,
				"start_time":     next.StartTime.Format(time.RFC3339),
				"end_time":       next.EndTime.Format(time.RFC3339),
			}
			publishTask(ctx, s.queue, newNotifyTask(NotifyEquipmentOffline, RecipientOwner, data))
		}
	}
	return nil
}
