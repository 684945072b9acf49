package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tutor_backend/internal/model"
	"tutor_backend/internal/repository"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type ChatService struct {
	ChatRepo *repository.ChatRepository
	Relay    Relay
	Event    string
}

func NewChatService(chatRepo *repository.ChatRepository, relay Relay, event string) *ChatService {
	if event == "" {
		event = "new-message"
	}
	return &ChatService{ChatRepo: chatRepo, Relay: relay, Event: event}
}

type PostMessageInput struct {
	Content   string
	Type      string
	Username  string
	UserImage string
}

// PostMessage 先落库再广播；广播失败时消息已保存，但调用方收到错误
func (s *ChatService) PostMessage(ctx context.Context, userID string, in PostMessageInput) (*model.ChatMessageView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, util.ValidationError("Message content is required")
	}

	msg := &model.ChatMessage{
		Content:   content,
		Type:      in.Type,
		UserID:    userID,
		Username:  in.Username,
		UserImage: in.UserImage,
	}
	if msg.Type == "" {
		msg.Type = "text"
	}
	if msg.Username == "" {
		msg.Username = "Anonymous"
	}

	if err := s.ChatRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}
	monitoring.ChatMessageCounter.WithLabelValues("in").Inc()

	view := msg.View()
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(RelayEvent{Event: s.Event, Data: data})
	if err != nil {
		return nil, err
	}
	if err := s.Relay.Publish(ctx, payload); err != nil {
		logger.Log.Error("Failed to publish chat message", zap.String("messageId", view.ID), zap.Error(err))
		return nil, fmt.Errorf("publish chat message: %w", err)
	}
	return &view, nil
}

// RecentMessages 最新 100 条，时间正序
func (s *ChatService) RecentMessages(ctx context.Context) ([]model.ChatMessageView, error) {
	messages, err := s.ChatRepo.Recent(ctx, util.ChatHistorySize)
	if err != nil {
		return nil, err
	}
	views := make([]model.ChatMessageView, 0, len(messages))
	for i := range messages {
		views = append(views, messages[i].View())
	}
	return views, nil
}
