package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	repository "github.com/ds124wfegd/bookit/internal/database/postgres"
	"github.com/ds124wfegd/bookit/internal/entity"
)

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	queue       TaskPublisher
}

// NewMessageService создает новый экземпляр MessageService
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		queue:       queue,
	}
}

// PostMessage публикует сообщение на доске. Все пользователи уведомляются.
func (s *messageService) PostMessage(ctx context.Context, actorID int64, req *PostMessageRequest) (*entity.Message, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if strings.TrimSpace(req.Msg) == "" {
		return nil, fmt.Errorf("%w: текст сообщения пустой", entity.ErrInvalidInput)
	}

	// Важные сообщения — только от суперпользователя
	critical := req.Critical && actor.IsPrivileged()

	message := &entity.Message{
		Msg:      req.Msg,
		UserID:   actorID,
		Critical: critical,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"message_id": message.ID,
		"username":   actor.Username,
		"msg":        message.Msg,
		"critical":   strconv.FormatBool(message.Critical),
		"url":        message.BoardURL(),
	}
	publishTask(ctx, s.queue, newNotifyTask(NotifyNewMessage, RecipientAllUsers, data))

	return message, nil
}

func (s *messageService) GetAllMessages(ctx context.Context) ([]*entity.Message, error) {
	return s.messageRepo.GetAll(ctx)
}

// DeleteMessage удаляет сообщение. Автор или суперпользователь.
func (s *messageService) DeleteMessage(ctx context.Context, actorID, id int64) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}

	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsPrivileged() && message.UserID != actorID {
		return entity.ErrNotAuthorized
	}

	return s.messageRepo.Delete(ctx, id)
}
