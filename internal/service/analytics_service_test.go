package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventReader struct {
	events    []model.LearningEvent
	err       error
	lastLimit int
	calls     int
}

func (f *fakeEventReader) Recent(ctx context.Context, userID string, limit int) ([]model.LearningEvent, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAnalytics(reader RecentEventReader) *AnalyticsService {
	svc := NewAnalyticsService(reader, NewAnalyticsSettings(testAnalyticsConfig()), NewAIService(config.AIConfig{}))
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func sampleEvents() []model.LearningEvent {
	var events []model.LearningEvent
	// Mathematics：大量近期笔记，应为强项
	for i := 0; i < 6; i++ {
		events = append(events, model.LearningEvent{UserID: "u", Type: model.EventNote, Subject: "Mathematics", Content: "n", Timestamp: fixedNow.Add(-time.Duration(i) * time.Hour)})
	}
	// Physics：一条很久以前的提问，应为弱项
	events = append(events, model.LearningEvent{UserID: "u", Type: model.EventQuestion, Subject: "Physics", Content: "q", Timestamp: fixedNow.Add(-30 * 24 * time.Hour)})
	events = append(events, model.LearningEvent{UserID: "u", Type: model.EventVoiceInteraction, Content: "v", Timestamp: fixedNow.Add(-2 * time.Hour)})
	return events
}

func TestGetPersonalizedTutoringNoData(t *testing.T) {
	reader := &fakeEventReader{}
	svc := newTestAnalytics(reader)

	_, err := svc.GetPersonalizedTutoring(context.Background(), "u", nil)
	assert.ErrorIs(t, err, util.ErrNoLearningData)
	assert.Equal(t, 50, reader.lastLimit)
}

func TestGetPersonalizedTutoringStoreFailure(t *testing.T) {
	svc := newTestAnalytics(&fakeEventReader{err: errors.New("connection refused")})

	_, err := svc.GetPersonalizedTutoring(context.Background(), "u", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrNoLearningData)
}

func TestGetPersonalizedTutoringUsesProvidedEvents(t *testing.T) {
	reader := &fakeEventReader{}
	svc := newTestAnalytics(reader)

	result, err := svc.GetPersonalizedTutoring(context.Background(), "u", sampleEvents())
	require.NoError(t, err)
	assert.Zero(t, reader.calls, "pre-fetched events must not hit the store")

	assert.Equal(t, "Visual-Kinesthetic", result.Pattern.LearningStyle)
	assert.Equal(t, []string{"Mathematics"}, result.Pattern.StrongAreas)
	assert.Equal(t, []string{"Physics"}, result.Pattern.WeakAreas)
	assert.Equal(t, result.Pattern.WeakAreas, result.Pattern.RecommendedTopics)
	assert.Equal(t, result.Pattern.RecommendedTopics, result.Recommendations.RecommendedTopics)
	assert.Equal(t, "Focus on Physics. Build on your strengths in Mathematics and strengthen understanding through interactive exercises.", result.TutorPrompt)

	assert.Equal(t, result.Pattern.ConceptualUnderstanding, result.BehaviorAnalysis.ConceptualUnderstanding)
	assert.InDelta(t, 0.75, result.BehaviorAnalysis.EngagementMetrics.QuestionQuality, 1e-9)
	assert.InDelta(t, 0.65, result.BehaviorAnalysis.EngagementMetrics.ConceptConnections, 1e-9)

	var total float64
	for _, v := range result.BehaviorAnalysis.AttentionPatterns {
		total += v
	}
	assert.Equal(t, float64(len(sampleEvents())), total)
}

func TestPartitionCoversUnderstandingKeys(t *testing.T) {
	svc := newTestAnalytics(&fakeEventReader{})
	svc.Scorer = StaticUnderstandingScorer{}

	result, err := svc.GetPersonalizedTutoring(context.Background(), "u", sampleEvents())
	require.NoError(t, err)

	var keys []string
	for k := range result.Pattern.ConceptualUnderstanding {
		keys = append(keys, k)
	}
	union := append(append([]string{}, result.Pattern.StrongAreas...), result.Pattern.WeakAreas...)
	sort.Strings(keys)
	sort.Strings(union)
	assert.Equal(t, keys, union)

	for _, s := range result.Pattern.StrongAreas {
		assert.GreaterOrEqual(t, result.Pattern.ConceptualUnderstanding[s], 0.75)
	}
	for _, s := range result.Pattern.WeakAreas {
		assert.Less(t, result.Pattern.ConceptualUnderstanding[s], 0.75)
	}
	assert.Equal(t, []string{"Computer Science", "Mathematics", "Physics"}, result.Pattern.StrongAreas)
	assert.Equal(t, []string{"Chemistry", "Biology"}, result.Pattern.WeakAreas)
}

func TestRecencyScorerBoundsAndDecay(t *testing.T) {
	scorer := NewRecencyUnderstandingScorer()
	recent := []model.LearningEvent{{Type: model.EventNote, Subject: "Math", Timestamp: fixedNow}}
	old := []model.LearningEvent{{Type: model.EventNote, Subject: "Math", Timestamp: fixedNow.Add(-14 * 24 * time.Hour)}}

	assert.InDelta(t, 0.5, scorer.Score(recent, fixedNow)["Math"], 1e-9)
	assert.InDelta(t, 0.2, scorer.Score(old, fixedNow)["Math"], 1e-9)

	none := scorer.Score([]model.LearningEvent{{Type: model.EventNote, Timestamp: fixedNow}}, fixedNow)
	assert.Empty(t, none)
}

func TestEngagementScorer(t *testing.T) {
	scorer := DefaultEngagementScorer{Settings: NewAnalyticsSettings(testAnalyticsConfig())}

	notesOnly := []model.LearningEvent{
		{Type: model.EventNote, Timestamp: fixedNow},
		{Type: model.EventNote, Timestamp: fixedNow.Add(-time.Hour)},
	}
	m := scorer.Score(notesOnly)
	assert.Zero(t, m.QuestionQuality)
	assert.InDelta(t, 0.4, m.ParticipationRate, 1e-9)

	var busy []model.LearningEvent
	for i := 0; i < 12; i++ {
		busy = append(busy, model.LearningEvent{Type: model.EventQuestion, Timestamp: fixedNow.Add(-time.Duration(i) * time.Minute)})
	}
	m = scorer.Score(busy)
	assert.InDelta(t, 0.75, m.QuestionQuality, 1e-9)
	assert.InDelta(t, 1.0, m.ParticipationRate, 1e-9)
}

func TestHourlyAttentionProfilerUsesTimezone(t *testing.T) {
	cfg := testAnalyticsConfig()
	cfg.Timezone = "Asia/Tokyo"
	profiler := HourlyAttentionProfiler{Settings: NewAnalyticsSettings(cfg)}

	patterns := profiler.Profile([]model.LearningEvent{
		{Timestamp: time.Date(2024, 6, 1, 0, 30, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 6, 1, 0, 45, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)},
	})
	assert.Equal(t, model.AttentionPatterns{"9": 2, "23": 1}, patterns)
}

func TestSettingsReloadChangesDefaultStyle(t *testing.T) {
	settings := NewAnalyticsSettings(testAnalyticsConfig())
	classifier := StaticStyleClassifier{Settings: settings}

	style, err := classifier.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Visual-Kinesthetic", style)

	cfg := testAnalyticsConfig()
	cfg.DefaultLearningStyle = "Auditory"
	settings.Store(cfg)

	style, err = classifier.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Auditory", style)
}

func TestPromptComposer(t *testing.T) {
	c := TemplatePromptComposer{}
	assert.Equal(t, "Focus on Physics, Chemistry. Strengthen understanding through interactive exercises.",
		c.Compose(model.LearningPattern{WeakAreas: []string{"Physics", "Chemistry"}}))
	assert.Equal(t, "Build on your strengths in Mathematics through interactive exercises.",
		c.Compose(model.LearningPattern{StrongAreas: []string{"Mathematics"}}))
	assert.NotEmpty(t, c.Compose(model.LearningPattern{}))
}

func TestStaticRecommender(t *testing.T) {
	rec := StaticRecommender{}.Recommend(model.LearningPattern{RecommendedTopics: []string{"Physics"}}, model.EngagementMetrics{})
	assert.Equal(t, []string{"Physics"}, rec.RecommendedTopics)
	assert.Equal(t, []string{"Active recall practice", "Spaced repetition", "Mind mapping"}, rec.StudyStrategies)
	assert.Equal(t, []string{"Interactive quizzes", "Video tutorials", "Practice problems"}, rec.ResourceTypes)
}

func TestLLMStyleClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Auditory.\n"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	ai := NewAIService(config.AIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "gpt-4"})
	svc := NewAnalyticsService(&fakeEventReader{}, NewAnalyticsSettings(testAnalyticsConfig()), ai)
	svc.Now = func() time.Time { return fixedNow }
	require.IsType(t, LLMStyleClassifier{}, svc.Style)

	result, err := svc.GetPersonalizedTutoring(context.Background(), "u", sampleEvents())
	require.NoError(t, err)
	assert.Equal(t, "Auditory", result.Pattern.LearningStyle)
	assert.Equal(t, "Auditory", result.BehaviorAnalysis.LearningStyle)
}

func TestLLMStyleClassifierUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	ai := NewAIService(config.AIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "gpt-4"})
	svc := NewAnalyticsService(&fakeEventReader{}, NewAnalyticsSettings(testAnalyticsConfig()), ai)

	_, err := svc.GetPersonalizedTutoring(context.Background(), "u", sampleEvents())
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrNoLearningData)
}
