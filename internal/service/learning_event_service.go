package service

import (
	"context"
	"strings"
	"time"

	"tutor_backend/internal/model"
	"tutor_backend/internal/repository"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type LearningEventService struct {
	Repo *repository.LearningEventRepository
	Now  func() time.Time
}

func NewLearningEventService(repo *repository.LearningEventRepository) *LearningEventService {
	return &LearningEventService{Repo: repo, Now: time.Now}
}

type RecordEventInput struct {
	Type      model.LearningEventType
	Subject   string
	Content   string
	Timestamp *time.Time
}

// RecordEvent 校验并写入一条学习事件，校验失败不写库
func (s *LearningEventService) RecordEvent(ctx context.Context, userID string, in RecordEventInput) (*model.LearningEvent, error) {
	if userID == "" {
		return nil, util.ErrUnauthenticated
	}
	if !in.Type.Valid() {
		return nil, util.ErrInvalidEventType
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, util.ErrEmptyContent
	}

	ts := s.Now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}

	event := &model.LearningEvent{
		UserID:    userID,
		Type:      in.Type,
		Subject:   in.Subject,
		Content:   in.Content,
		Timestamp: ts.UTC(),
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		logger.Log.Error("Failed to store learning event", zap.String("userId", userID), zap.Error(err))
		return nil, err
	}

	monitoring.LearningEventsIngested.WithLabelValues(string(event.Type)).Inc()
	return event, nil
}

func (s *LearningEventService) ListEvents(ctx context.Context, userID string, filter model.LearningEventFilter) ([]model.LearningEvent, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, util.ErrInvalidEventType
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, util.ValidationError("fromDate must not be after toDate")
	}
	return s.Repo.ListByUser(ctx, userID, filter)
}

func (s *LearningEventService) Stats(ctx context.Context, userID string) ([]model.LearningEventStats, error) {
	return s.Repo.Stats(ctx, userID)
}

// DeleteEvent 事件不可删除
func (s *LearningEventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return util.ValidationError("event id is required")
	}
	return util.ErrNotImplemented
}
