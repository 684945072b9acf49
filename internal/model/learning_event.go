package model

import (
	"time"

	"gorm.io/gorm"
)

type LearningEventType string

const (
	EventQuestion         LearningEventType = "question"
	EventNote             LearningEventType = "note"
	EventVoiceInteraction LearningEventType = "voice_interaction"
)

var LearningEventTypes = []LearningEventType{EventQuestion, EventNote, EventVoiceInteraction}

func (t LearningEventType) Valid() bool {
	for _, v := range LearningEventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// LearningEvent 用户的一次学习行为，写入后不可变
type LearningEvent struct {
	ID        string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string            `gorm:"size:64;not null;index:idx_learning_events_user_ts,priority:1" json:"userId"`
	Type      LearningEventType `gorm:"size:32;not null;index" json:"type"`
	Subject   string            `gorm:"size:100;index" json:"subject,omitempty"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time         `gorm:"not null;index:idx_learning_events_user_ts,priority:2" json:"timestamp"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (LearningEvent) TableName() string {
	return "learning_events"
}

func (e *LearningEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = GenerateUUID()
	}
	return nil
}

// LearningEventFilter 条件之间为 AND，分页最后生效
type LearningEventFilter struct {
	Type     LearningEventType
	Subject  string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// LearningEventStats 按 (type, subject) 聚合
type LearningEventStats struct {
	Type       LearningEventType `json:"type"`
	Subject    string            `json:"subject"`
	Count      int64             `json:"count"`
	FirstEvent time.Time         `json:"firstEvent"`
	LastEvent  time.Time         `json:"lastEvent"`
}
