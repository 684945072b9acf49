package model

type LearningPattern struct {
	StrongAreas             []string           `json:"strongAreas"`
	WeakAreas               []string           `json:"weakAreas"`
	RecommendedTopics       []string           `json:"recommendedTopics"`
	LearningStyle           string             `json:"learningStyle"`
	ConceptualUnderstanding map[string]float64 `json:"conceptualUnderstanding"`
}

// EngagementMetrics 各项取值 [0,1]
type EngagementMetrics struct {
	QuestionQuality    float64 `json:"questionQuality"`
	ParticipationRate  float64 `json:"participationRate"`
	ConceptConnections float64 `json:"conceptConnections"`
}

// AttentionPatterns 以小时 ("0".."23") 为键的事件计数
type AttentionPatterns map[string]float64

type BehaviorAnalysis struct {
	LearningStyle           string             `json:"learningStyle"`
	ConceptualUnderstanding map[string]float64 `json:"conceptualUnderstanding"`
	AttentionPatterns       AttentionPatterns  `json:"attentionPatterns"`
	EngagementMetrics       EngagementMetrics  `json:"engagementMetrics"`
}

type LearningRecommendations struct {
	RecommendedTopics []string `json:"recommendedTopics"`
	StudyStrategies   []string `json:"studyStrategies"`
	ResourceTypes     []string `json:"resourceTypes"`
}

type PersonalizedTutoring struct {
	TutorPrompt      string                  `json:"tutorPrompt"`
	Pattern          LearningPattern         `json:"pattern"`
	BehaviorAnalysis BehaviorAnalysis        `json:"behaviorAnalysis"`
	Recommendations  LearningRecommendations `json:"recommendations"`
}
