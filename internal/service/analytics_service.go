package service

import (
	"context"
	"fmt"
	"time"

	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"
	"tutor_backend/pkg/tracing"

	"go.uber.org/zap"
)

// RecentEventReader 分析只需要读取最近事件
type RecentEventReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]model.LearningEvent, error)
}

type AnalyticsService struct {
	Events      RecentEventReader
	Settings    *AnalyticsSettings
	Style       StyleClassifier
	Scorer      UnderstandingScorer
	Engagement  EngagementScorer
	Attention   AttentionProfiler
	Recommender Recommender
	Prompt      PromptComposer
	// 测试中固定当前时间
	Now func() time.Time
}

// NewAnalyticsService 按配置装配默认策略，AI 可用时学习风格交给模型判定
func NewAnalyticsService(events RecentEventReader, settings *AnalyticsSettings, ai *AIService) *AnalyticsService {
	var style StyleClassifier = StaticStyleClassifier{Settings: settings}
	if ai.Enabled() {
		style = LLMStyleClassifier{AI: ai}
	}

	var scorer UnderstandingScorer = NewRecencyUnderstandingScorer()
	if settings.Load().Scorer == "static" {
		scorer = StaticUnderstandingScorer{}
	}

	return &AnalyticsService{
		Events:      events,
		Settings:    settings,
		Style:       style,
		Scorer:      scorer,
		Engagement:  DefaultEngagementScorer{Settings: settings},
		Attention:   HourlyAttentionProfiler{Settings: settings},
		Recommender: StaticRecommender{},
		Prompt:      TemplatePromptComposer{},
		Now:         time.Now,
	}
}

// GetPersonalizedTutoring 计算学习模式、行为分析、推荐和辅导提示。
// events 为空时从存储读取最近的事件
func (s *AnalyticsService) GetPersonalizedTutoring(ctx context.Context, userID string, events []model.LearningEvent) (*model.PersonalizedTutoring, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.personalized_tutoring")
	defer span.End()

	settings := s.Settings.Load()

	if len(events) == 0 {
		var err error
		events, err = s.Events.Recent(ctx, userID, settings.RecentEventLimit)
		if err != nil {
			monitoring.AnalyticsRequests.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("load recent events: %w", err)
		}
	}
	if len(events) == 0 {
		monitoring.AnalyticsRequests.WithLabelValues("no_data").Inc()
		return nil, util.ErrNoLearningData
	}

	style, err := s.Style.Classify(ctx, events)
	if err != nil {
		monitoring.AnalyticsRequests.WithLabelValues("error").Inc()
		logger.Log.Error("Learning style classification failed", zap.String("userId", userID), zap.Error(err))
		return nil, fmt.Errorf("classify learning style: %w", err)
	}

	understanding := s.Scorer.Score(events, s.Now())
	strong, weak := partitionAreas(understanding, settings.StrongThreshold)

	pattern := model.LearningPattern{
		StrongAreas:             strong,
		WeakAreas:               weak,
		RecommendedTopics:       append([]string{}, weak...),
		LearningStyle:           style,
		ConceptualUnderstanding: understanding,
	}
	engagement := s.Engagement.Score(events)

	monitoring.AnalyticsRequests.WithLabelValues("ok").Inc()
	return &model.PersonalizedTutoring{
		TutorPrompt: s.Prompt.Compose(pattern),
		Pattern:     pattern,
		BehaviorAnalysis: model.BehaviorAnalysis{
			LearningStyle:           style,
			ConceptualUnderstanding: understanding,
			AttentionPatterns:       s.Attention.Profile(events),
			EngagementMetrics:       engagement,
		},
		Recommendations: s.Recommender.Recommend(pattern, engagement),
	}, nil
}
