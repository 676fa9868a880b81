package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"

	"github.com/sirupsen/logrus"
)

type maintenanceService struct {
	serviceRepo   repository.ServiceRepository
	eventRepo     repository.EventRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	queue         TaskPublisher
}

// NewMaintenanceService создает новый экземпляр MaintenanceService
func NewMaintenanceService(
	serviceRepo repository.ServiceRepository,
	eventRepo repository.EventRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) MaintenanceService {
	return &maintenanceService{
		serviceRepo:   serviceRepo,
		eventRepo:     eventRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		queue:         queue,
	}
}

// ScheduleMaintenance создает запись о работе и блокирующую бронь одним
// действием. Пересекающиеся пользовательские брони принудительно отменяются,
// их владельцы получают уведомления.
func (s *maintenanceService) ScheduleMaintenance(ctx context.Context, actorID int64, req *ScheduleMaintenanceRequest) (*entity.ServiceRecord, *entity.Event, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return nil, nil, entity.ErrNotAuthorized
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, nil, err
	}

	record := &entity.ServiceRecord{
		UserID:      actorID,
		EquipmentID: req.EquipmentID,
		Job:         req.Job,
		Notes:       req.Notes,
		Date:        req.StartTime,
	}
	if err := s.serviceRepo.Create(ctx, record); err != nil {
		return nil, nil, err
	}

	event := &entity.Event{
		UserID:      actorID,
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      entity.EventStatusActive,
		Notes:       req.Notes,
		Disassemble: req.Disassemble,
		Maintenance: true,
		ServiceID:   &record.ID,
	}
	event.ElapsedHours = event.Elapsed()

	canceled, err := s.eventRepo.SaveWithConflictCheck(ctx, event, nil, true)
	if err != nil {
		// Бронь не прошла, запись о работе остается без события
		logrus.Warnf("Service record %d left without maintenance event: %v", record.ID, err)
		return nil, nil, err
	}

	data := taskData(event, equipment, actor.Username)
	data["job"] = record.Job
	publishTask(ctx, s.queue, newNotifyTask(NotifyMaintenanceScheduled, RecipientEquipmentUsers, data))

	for _, victim := range canceled {
		victimData := taskData(event, equipment, actor.Username)
		victimData["user_id"] = victim.UserID
		victimData["start_time"] = victim.StartTime.Format(time.RFC3339)
		victimData["end_time"] = victim.EndTime.Format(time.RFC3339)
		publishTask(ctx, s.queue, newNotifyTask(NotifyMaintenanceCancellation, RecipientOwner, victimData))
	}

	return record, event, nil
}

func (s *maintenanceService) GetEquipmentServices(ctx context.Context, equipmentID int64) ([]*entity.ServiceRecord, error) {
	return s.serviceRepo.GetByEquipment(ctx, equipmentID)
}

// CompleteService закрывает работу с отметкой об успехе
func (s *maintenanceService) CompleteService(ctx context.Context, actorID, serviceID int64, success bool) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return entity.ErrNotAuthorized
	}

	if err := s.serviceRepo.SetCompleted(ctx, serviceID, true); err != nil {
		return err
	}
	return s.serviceRepo.SetSuccess(ctx, serviceID, success)
}
