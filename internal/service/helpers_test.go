package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/repository"
	"tutor_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return repository.NewStore(db, false)
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		DefaultLearningStyle: "Visual-Kinesthetic",
		OptimalDailyEvents:   5,
		RecentEventLimit:     50,
		StrongThreshold:      0.75,
		Timezone:             "UTC",
		Scorer:               "recency",
	}
}
