package service

import (
	"context"
	"fmt"
	"strings"

	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"

	openai "github.com/sashabaranov/go-openai"
)

const enhanceSystemPrompt = "You are an expert academic tutor and editor, skilled in enhancing student notes while maintaining their original meaning. You excel at grammar correction, clarity improvement, and academic writing enhancement."

const enhancePromptTemplate = `As an expert tutor in %s, please enhance these student notes. Your task is to:

1. Fix any grammar and spelling mistakes
2. Improve clarity and organization
3. Add relevant examples and explanations
4. Highlight key concepts and terms
5. Maintain the original meaning while making it more academically sound
6. Format the text for better readability
7. Add brief explanations for complex terms
8. Ensure proper subject-specific terminology is used

Original student notes:
%s

Please provide the enhanced version with:
- Corrected grammar and spelling
- Clear structure with headings
- Bullet points for key ideas
- Examples in relevant places
- Proper academic terminology
- Brief explanations where needed

Format the response using markdown for better readability.`

var learningStyles = []string{"Visual", "Auditory", "Reading-Writing", "Kinesthetic", "Visual-Kinesthetic"}

var styleSystemPrompt = "You classify a student's learning style from their recent study activity. Answer with exactly one label from: " +
	strings.Join(learningStyles, ", ") + ". No other text."

// AIService OpenAI 兼容接口的封装，未配置 key 时不可用
type AIService struct {
	client *openai.Client
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{config: cfg}
	if cfg.APIKey == "" {
		return s
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	s.client = openai.NewClientWithConfig(clientConfig)
	return s
}

func (s *AIService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *AIService) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if !s.Enabled() {
		return "", util.ErrAIUnavailable
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", util.ErrEmptyAIResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", util.ErrEmptyAIResponse
	}
	return content, nil
}

// EnhanceNotes 润色学生笔记，返回 markdown
func (s *AIService) EnhanceNotes(ctx context.Context, content string, tags []string) (string, error) {
	return s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.config.EnhanceModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enhanceSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(enhancePromptTemplate, strings.Join(tags, ", "), content)},
		},
		Temperature:      0.7,
		MaxTokens:        2000,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	})
}

// ClassifyLearningStyle 根据最近事件给出学习风格标签
func (s *AIService) ClassifyLearningStyle(ctx context.Context, events []model.LearningEvent) (string, error) {
	var b strings.Builder
	for _, e := range events {
		subject := e.Subject
		if subject == "" {
			subject = "general"
		}
		fmt.Fprintf(&b, "- [%s] (%s) %s\n", e.Type, subject, truncate(e.Content, 200))
	}

	label, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: styleSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Recent activity:\n" + b.String()},
		},
		Temperature: 0,
		MaxTokens:   16,
	})
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	label = strings.Trim(label, " .\"'")
	for _, style := range learningStyles {
		if strings.EqualFold(label, style) {
			return style, nil
		}
	}
	return "", fmt.Errorf("%w: learning style %q", util.ErrInvalidAIResponse, label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
