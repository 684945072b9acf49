package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAIService(config.AIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL + "/v1",
		Model:        "gpt-4",
		EnhanceModel: "gpt-3.5-turbo",
	})
}

func completionHandler(t *testing.T, content string, captured *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}
}

func TestEnhanceNotes(t *testing.T) {
	var body map[string]any
	svc := newTestAIService(t, completionHandler(t, "# Photosynthesis\n- light", &body))

	result, err := svc.EnhanceNotes(context.Background(), "plants make food", []string{"Biology", "Chemistry"})
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis\n- light", result)

	assert.Equal(t, "gpt-3.5-turbo", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
	assert.EqualValues(t, 2000, body["max_tokens"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "As an expert tutor in Biology, Chemistry")
	assert.Contains(t, user, "plants make food")
}

func TestEnhanceNotesEmptyCompletion(t *testing.T) {
	svc := newTestAIService(t, completionHandler(t, "   ", nil))

	_, err := svc.EnhanceNotes(context.Background(), "x", []string{"Math"})
	assert.ErrorIs(t, err, util.ErrEmptyAIResponse)
}

func TestAIServiceWithoutKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{})
	assert.False(t, svc.Enabled())

	_, err := svc.EnhanceNotes(context.Background(), "x", []string{"Math"})
	assert.ErrorIs(t, err, util.ErrAIUnavailable)
}

func TestClassifyLearningStyle(t *testing.T) {
	events := []model.LearningEvent{{Type: model.EventNote, Subject: "Physics", Content: "drew a force diagram"}}

	tests := []struct {
		name    string
		answer  string
		want    string
		wantErr error
	}{
		{name: "exact label", answer: "Kinesthetic", want: "Kinesthetic"},
		{name: "trailing punctuation and case", answer: "visual-kinesthetic.\nBecause diagrams", want: "Visual-Kinesthetic"},
		{name: "unknown label", answer: "Musical", wantErr: util.ErrInvalidAIResponse},
		{name: "free text", answer: "The student seems to prefer videos", wantErr: util.ErrInvalidAIResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAIService(t, completionHandler(t, tt.answer, nil))

			got, err := svc.ClassifyLearningStyle(context.Background(), events)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
