package repository

import (
	"context"

	"tutor_backend/internal/model"

	"gorm.io/gorm"
)

// ChatRepository 公共聊天室共享一张表，读写都不按用户过滤
type ChatRepository struct {
	store *Store
}

func NewChatRepository(store *Store) *ChatRepository {
	return &ChatRepository{store: store}
}

func (r *ChatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.store.run(ctx, false, func(tx *gorm.DB) error {
		return tx.Create(msg).Error
	})
}

// Recent 取最新 limit 条，按时间正序返回
func (r *ChatRepository) Recent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	messages := make([]model.ChatMessage, 0, limit)
	err := r.store.run(ctx, false, func(tx *gorm.DB) error {
		return tx.Order("id DESC").Limit(limit).Find(&messages).Error
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
