package model

import (
	"strconv"
	"time"
)

// ChatMessage 公共聊天室消息
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"size:32;default:'text'" json:"type"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	Username  string    `gorm:"size:100" json:"username"`
	UserImage string    `gorm:"size:512" json:"userImage,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatMessageView 对外（HTTP 与广播）的消息格式
type ChatMessageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	UserImage string    `json:"userImage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *ChatMessage) View() ChatMessageView {
	return ChatMessageView{
		ID:        strconv.FormatUint(uint64(m.ID), 10),
		Content:   m.Content,
		Type:      m.Type,
		UserID:    m.UserID,
		Username:  m.Username,
		UserImage: m.UserImage,
		CreatedAt: m.CreatedAt,
	}
}
