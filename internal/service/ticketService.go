package service

import (
	"context"
	"fmt"
	"strings"

	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"
)

type ticketService struct {
	ticketRepo    repository.TicketRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	queue         TaskPublisher
}

// NewTicketService создает новый экземпляр TicketService
func NewTicketService(
	ticketRepo repository.TicketRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) TicketService {
	return &ticketService{
		ticketRepo:    ticketRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		queue:         queue,
	}
}

// CreateTicket заводит тикет о неисправности, администраторам уходит уведомление
func (s *ticketService) CreateTicket(ctx context.Context, actorID int64, req *CreateTicketRequest) (*entity.Ticket, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Msg) == "" {
		return nil, fmt.Errorf("%w: текст тикета пустой", entity.ErrInvalidInput)
	}

	ticket := &entity.Ticket{
		Msg:         req.Msg,
		EquipmentID: req.EquipmentID,
		Priority:    req.Priority,
		UserID:      actorID,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"ticket_id":      ticket.ID,
		"equipment_id":   equipment.ID,
		"equipment_name": equipment.Name,
		"username":       actor.Username,
		"msg":            ticket.Msg,
		"url":            ticket.AdminURL(),
	}
	publishTask(ctx, s.queue, newNotifyTask(NotifyTicketCreated, RecipientAdmins, data))

	return ticket, nil
}

func (s *ticketService) GetTicket(ctx context.Context, id int64) (*TicketDetails, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.ticketRepo.GetComments(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TicketDetails{Ticket: ticket, Comments: comments}, nil
}

// GetTickets отдает все тикеты суперпользователю, остальным — только свои
func (s *ticketService) GetTickets(ctx context.Context, actorID int64) ([]*entity.Ticket, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if actor.IsPrivileged() {
		return s.ticketRepo.GetAll(ctx)
	}
	return s.ticketRepo.GetByUser(ctx, actorID)
}

// SetTicketStatus закрывает или переоткрывает тикет. Автор уведомляется.
func (s *ticketService) SetTicketStatus(ctx context.Context, actorID, id int64, closed bool) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Закрывать чужие тикеты может только суперпользователь
	if !actor.IsPrivileged() && ticket.UserID != actorID {
		return entity.ErrNotAuthorized
	}

	if err := s.ticketRepo.SetStatus(ctx, id, closed); err != nil {
		return err
	}

	statusWord := "reopened"
	if closed {
		statusWord = "closed"
	}
	equipmentName := ""
	if eq, err := s.equipmentRepo.GetByID(ctx, ticket.EquipmentID); err == nil {
		equipmentName = eq.Name
	}
	data := map[string]interface{}{
		"ticket_id":      ticket.ID,
		"user_id":        ticket.UserID,
		"equipment_name": equipmentName,
		"status":         statusWord,
		"url":            ticket.AdminURL(),
	}
	publishTask(ctx, s.queue, newNotifyTask(NotifyTicketStatus, RecipientOwner, data))

	return nil
}

// SetTicketPriority помечает тикет срочным. Только суперпользователь.
func (s *ticketService) SetTicketPriority(ctx context.Context, actorID, id int64, priority bool) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}
	if !actor.IsPrivileged() {
		return entity.ErrNotAuthorized
	}

	return s.ticketRepo.SetPriority(ctx, id, priority)
}

func (s *ticketService) AddComment(ctx context.Context, actorID, ticketID int64, msg string) (*entity.Comment, error) {
	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg) == "" {
		return nil, fmt.Errorf("%w: текст комментария пустой", entity.ErrInvalidInput)
	}

	comment := &entity.Comment{
		TicketID: ticketID,
		Msg:      msg,
		UserID:   actorID,
	}
	if err := s.ticketRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
