package repository

import (
	"context"
	"sort"

	"tutor_backend/internal/model"
	"tutor_backend/internal/util"

	"gorm.io/gorm"
)

type LearningEventRepository struct {
	store *Store
}

func NewLearningEventRepository(store *Store) *LearningEventRepository {
	return &LearningEventRepository{store: store}
}

func (r *LearningEventRepository) Create(ctx context.Context, event *model.LearningEvent) error {
	return r.store.run(ctx, true, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
}

// ListByUser 按时间倒序返回用户事件，过滤条件为 AND，分页最后生效
func (r *LearningEventRepository) ListByUser(ctx context.Context, userID string, filter model.LearningEventFilter) ([]model.LearningEvent, error) {
	events := make([]model.LearningEvent, 0)
	err := r.store.run(ctx, false, func(tx *gorm.DB) error {
		query := tx.Model(&model.LearningEvent{}).Where("user_id = ?", userID)

		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
		if filter.Subject != "" {
			query = query.Where("subject = ?", filter.Subject)
		}
		if filter.FromDate != nil {
			query = query.Where("timestamp >= ?", filter.FromDate.UTC())
		}
		if filter.ToDate != nil {
			query = query.Where("timestamp <= ?", filter.ToDate.UTC())
		}

		limit := filter.Limit
		if filter.Offset > 0 && limit == 0 {
			limit = util.DefaultPageSize
		}
		if limit > util.MaxPageSize {
			limit = util.MaxPageSize
		}
		if limit > 0 {
			query = query.Limit(limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}

		return query.Order("timestamp DESC").Order("created_at DESC").Find(&events).Error
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Recent 最近 limit 条事件
func (r *LearningEventRepository) Recent(ctx context.Context, userID string, limit int) ([]model.LearningEvent, error) {
	return r.ListByUser(ctx, userID, model.LearningEventFilter{Limit: limit})
}

// Stats 在内存中聚合，避免各方言 MIN/MAX 返回类型不一致
func (r *LearningEventRepository) Stats(ctx context.Context, userID string) ([]model.LearningEventStats, error) {
	var rows []model.LearningEvent
	err := r.store.run(ctx, false, func(tx *gorm.DB) error {
		return tx.Model(&model.LearningEvent{}).
			Select("type", "subject", "timestamp").
			Where("user_id = ?", userID).
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	type key struct {
		t model.LearningEventType
		s string
	}
	grouped := make(map[key]*model.LearningEventStats)
	for _, e := range rows {
		k := key{e.Type, e.Subject}
		st, ok := grouped[k]
		if !ok {
			st = &model.LearningEventStats{Type: e.Type, Subject: e.Subject, FirstEvent: e.Timestamp, LastEvent: e.Timestamp}
			grouped[k] = st
		}
		st.Count++
		if e.Timestamp.Before(st.FirstEvent) {
			st.FirstEvent = e.Timestamp
		}
		if e.Timestamp.After(st.LastEvent) {
			st.LastEvent = e.Timestamp
		}
	}

	stats := make([]model.LearningEventStats, 0, len(grouped))
	for _, st := range grouped {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		if stats[i].Type != stats[j].Type {
			return stats[i].Type < stats[j].Type
		}
		return stats[i].Subject < stats[j].Subject
	})
	return stats, nil
}
