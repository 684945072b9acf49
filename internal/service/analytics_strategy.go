package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
)

// AnalyticsSettings 可热更新的分析配置
type AnalyticsSettings struct {
	v atomic.Value
}

func NewAnalyticsSettings(cfg config.AnalyticsConfig) *AnalyticsSettings {
	s := &AnalyticsSettings{}
	s.Store(cfg)
	return s
}

func (s *AnalyticsSettings) Load() config.AnalyticsConfig {
	return s.v.Load().(config.AnalyticsConfig)
}

func (s *AnalyticsSettings) Store(cfg config.AnalyticsConfig) {
	s.v.Store(cfg)
}

type StyleClassifier interface {
	Classify(ctx context.Context, events []model.LearningEvent) (string, error)
}

type UnderstandingScorer interface {
	Score(events []model.LearningEvent, now time.Time) map[string]float64
}

type EngagementScorer interface {
	Score(events []model.LearningEvent) model.EngagementMetrics
}

type AttentionProfiler interface {
	Profile(events []model.LearningEvent) model.AttentionPatterns
}

// StaticStyleClassifier 返回配置的默认学习风格
type StaticStyleClassifier struct {
	Settings *AnalyticsSettings
}

func (c StaticStyleClassifier) Classify(ctx context.Context, events []model.LearningEvent) (string, error) {
	return c.Settings.Load().DefaultLearningStyle, nil
}

type LLMStyleClassifier struct {
	AI *AIService
}

func (c LLMStyleClassifier) Classify(ctx context.Context, events []model.LearningEvent) (string, error) {
	return c.AI.ClassifyLearningStyle(ctx, events)
}

// RecencyUnderstandingScorer 按学科累积证据，证据随时间半衰
// score = e / (e + 1)，e 为加权后的事件数
type RecencyUnderstandingScorer struct {
	HalfLife time.Duration
}

var understandingWeights = map[model.LearningEventType]float64{
	model.EventNote:             1.0,
	model.EventVoiceInteraction: 0.8,
	model.EventQuestion:         0.6,
}

func NewRecencyUnderstandingScorer() RecencyUnderstandingScorer {
	return RecencyUnderstandingScorer{HalfLife: 7 * 24 * time.Hour}
}

func (s RecencyUnderstandingScorer) Score(events []model.LearningEvent, now time.Time) map[string]float64 {
	evidence := make(map[string]float64)
	for _, e := range events {
		subject := strings.TrimSpace(e.Subject)
		if subject == "" {
			continue
		}
		age := now.Sub(e.Timestamp)
		if age < 0 {
			age = 0
		}
		decay := math.Pow(0.5, float64(age)/float64(s.HalfLife))
		evidence[subject] += understandingWeights[e.Type] * decay
	}

	scores := make(map[string]float64, len(evidence))
	for subject, e := range evidence {
		scores[subject] = round2(e / (e + 1))
	}
	return scores
}

// StaticUnderstandingScorer 固定分值表，用于演示环境
type StaticUnderstandingScorer struct{}

func (StaticUnderstandingScorer) Score(events []model.LearningEvent, now time.Time) map[string]float64 {
	return map[string]float64{
		"Mathematics":      0.85,
		"Physics":          0.78,
		"Chemistry":        0.65,
		"Biology":          0.72,
		"Computer Science": 0.90,
	}
}

type DefaultEngagementScorer struct {
	Settings *AnalyticsSettings
}

func (s DefaultEngagementScorer) Score(events []model.LearningEvent) model.EngagementMetrics {
	metrics := model.EngagementMetrics{ConceptConnections: 0.65}
	if len(events) == 0 {
		return metrics
	}

	days := make(map[string]struct{})
	for _, e := range events {
		if e.Type == model.EventQuestion {
			metrics.QuestionQuality = 0.75
		}
		days[e.Timestamp.UTC().Format("2006-01-02")] = struct{}{}
	}

	optimal := s.Settings.Load().OptimalDailyEvents
	if optimal <= 0 {
		optimal = 5
	}
	metrics.ParticipationRate = math.Min(1, float64(len(events))/(float64(len(days))*optimal))
	return metrics
}

// HourlyAttentionProfiler 按配置时区的小时统计事件数（原始计数，不归一化）
type HourlyAttentionProfiler struct {
	Settings *AnalyticsSettings
}

func (p HourlyAttentionProfiler) Profile(events []model.LearningEvent) model.AttentionPatterns {
	loc := p.Settings.Load().Location()
	patterns := make(model.AttentionPatterns)
	for _, e := range events {
		hour := strconv.Itoa(e.Timestamp.In(loc).Hour())
		patterns[hour]++
	}
	return patterns
}

// partitionAreas 按阈值划分强弱项。强项按分数降序，弱项按分数升序
func partitionAreas(scores map[string]float64, threshold float64) (strong, weak []string) {
	strong = make([]string, 0)
	weak = make([]string, 0)
	for subject, score := range scores {
		if score >= threshold {
			strong = append(strong, subject)
		} else {
			weak = append(weak, subject)
		}
	}
	sort.Slice(strong, func(i, j int) bool {
		if scores[strong[i]] != scores[strong[j]] {
			return scores[strong[i]] > scores[strong[j]]
		}
		return strong[i] < strong[j]
	})
	sort.Slice(weak, func(i, j int) bool {
		if scores[weak[i]] != scores[weak[j]] {
			return scores[weak[i]] < scores[weak[j]]
		}
		return weak[i] < weak[j]
	})
	return strong, weak
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
