package service

import (
	"fmt"
	"strings"

	"tutor_backend/internal/model"
)

var (
	defaultStudyStrategies = []string{"Active recall practice", "Spaced repetition", "Mind mapping"}
	defaultResourceTypes   = []string{"Interactive quizzes", "Video tutorials", "Practice problems"}
)

type Recommender interface {
	Recommend(pattern model.LearningPattern, metrics model.EngagementMetrics) model.LearningRecommendations
}

type PromptComposer interface {
	Compose(pattern model.LearningPattern) string
}

// StaticRecommender 推荐主题直接取自学习模式，策略与资源类型为固定列表
type StaticRecommender struct{}

func (StaticRecommender) Recommend(pattern model.LearningPattern, metrics model.EngagementMetrics) model.LearningRecommendations {
	topics := make([]string, len(pattern.RecommendedTopics))
	copy(topics, pattern.RecommendedTopics)
	return model.LearningRecommendations{
		RecommendedTopics: topics,
		StudyStrategies:   append([]string(nil), defaultStudyStrategies...),
		ResourceTypes:     append([]string(nil), defaultResourceTypes...),
	}
}

type TemplatePromptComposer struct{}

func (TemplatePromptComposer) Compose(pattern model.LearningPattern) string {
	weak := strings.Join(pattern.WeakAreas, ", ")
	strong := strings.Join(pattern.StrongAreas, ", ")

	switch {
	case weak != "" && strong != "":
		return fmt.Sprintf("Focus on %s. Build on your strengths in %s and strengthen understanding through interactive exercises.", weak, strong)
	case weak != "":
		return fmt.Sprintf("Focus on %s. Strengthen understanding through interactive exercises.", weak)
	case strong != "":
		return fmt.Sprintf("Build on your strengths in %s through interactive exercises.", strong)
	default:
		return "Keep logging questions and notes so we can tailor your next study session."
	}
}
