package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return NewStore(db, false)
}

func seedEvents(t *testing.T, repo *LearningEventRepository, userID string, base time.Time) {
	t.Helper()
	ctx := context.Background()
	events := []model.LearningEvent{
		{UserID: userID, Type: model.EventQuestion, Subject: "Mathematics", Content: "q1", Timestamp: base.Add(-72 * time.Hour)},
		{UserID: userID, Type: model.EventNote, Subject: "Physics", Content: "n1", Timestamp: base.Add(-48 * time.Hour)},
		{UserID: userID, Type: model.EventNote, Subject: "Mathematics", Content: "n2", Timestamp: base.Add(-24 * time.Hour)},
		{UserID: userID, Type: model.EventVoiceInteraction, Content: "v1", Timestamp: base},
	}
	for i := range events {
		require.NoError(t, repo.Create(ctx, &events[i]))
	}
}

func TestLearningEventRepositoryListByUser(t *testing.T) {
	repo := NewLearningEventRepository(newTestStore(t))
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	seedEvents(t, repo, "user_a", base)
	seedEvents(t, repo, "user_b", base)
	ctx := context.Background()

	all, err := repo.ListByUser(ctx, "user_a", model.LearningEventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "events must be newest first")
	}
	for _, e := range all {
		assert.Equal(t, "user_a", e.UserID)
		assert.NotEmpty(t, e.ID)
	}

	notes, err := repo.ListByUser(ctx, "user_a", model.LearningEventFilter{Type: model.EventNote, Subject: "Mathematics"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n2", notes[0].Content)

	from := base.Add(-50 * time.Hour)
	to := base.Add(-1 * time.Hour)
	ranged, err := repo.ListByUser(ctx, "user_a", model.LearningEventFilter{FromDate: &from, ToDate: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "n2", ranged[0].Content)
	assert.Equal(t, "n1", ranged[1].Content)

	page, err := repo.ListByUser(ctx, "user_a", model.LearningEventFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "n2", page[0].Content)
	assert.Equal(t, "n1", page[1].Content)

	none, err := repo.ListByUser(ctx, "nobody", model.LearningEventFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLearningEventRepositoryStats(t *testing.T) {
	repo := NewLearningEventRepository(newTestStore(t))
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	seedEvents(t, repo, "user_a", base)

	stats, err := repo.Stats(context.Background(), "user_a")
	require.NoError(t, err)
	require.Len(t, stats, 4)

	var total int64
	for _, st := range stats {
		total += st.Count
		assert.False(t, st.LastEvent.Before(st.FirstEvent))
	}
	assert.Equal(t, int64(4), total)
}

func TestLearningEventRepositoryRejectsReadOnlyWrites(t *testing.T) {
	repo := NewLearningEventRepository(newTestStore(t))
	ctx := util.WithStoreCredential(context.Background(), &util.StoreCredential{Role: util.RoleAnon})

	err := repo.Create(ctx, &model.LearningEvent{UserID: "u", Type: model.EventNote, Content: "x", Timestamp: time.Now()})
	assert.ErrorIs(t, err, util.ErrReadOnlyCredential)

	events, err := repo.ListByUser(ctx, "u", model.LearningEventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)

	authed := util.WithStoreCredential(context.Background(), &util.StoreCredential{Role: util.RoleAuthenticated, UserID: "u"})
	require.NoError(t, repo.Create(authed, &model.LearningEvent{UserID: "u", Type: model.EventNote, Content: "x", Timestamp: time.Now()}))
}

func TestChatRepositoryRecentIsChronological(t *testing.T) {
	repo := NewChatRepository(newTestStore(t))
	ctx := context.Background()

	for i := 0; i < 105; i++ {
		require.NoError(t, repo.Create(ctx, &model.ChatMessage{
			Content:  fmt.Sprintf("m%d", i),
			Type:     "text",
			UserID:   "u",
			Username: "Anonymous",
		}))
	}

	messages, err := repo.Recent(ctx, util.ChatHistorySize)
	require.NoError(t, err)
	require.Len(t, messages, 100)
	assert.Equal(t, "m5", messages[0].Content)
	assert.Equal(t, "m104", messages[99].Content)
}
