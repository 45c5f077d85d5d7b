package leak

import "time"

// Message is one chat message from the community window under analysis.
type Message struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Bot        bool      `json:"bot"`
	Content    string    `json:"content"`
	ChannelID  string    `json:"channel_id"`
	Mentions   []string  `json:"mentions,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Candidate is a potential leak target aggregated from the message window.
// It lives only for the duration of one generation.
type Candidate struct {
	UserID         string
	DisplayName    string
	RecentMessages []string
	MessageCount   int
	TotalChars     int
	AvgMessageLen  float64
	Channels       []string
	LastMessageAt  time.Time
	ActivityScore  float64
}

// CommunicationStyle describes how the target writes.
type CommunicationStyle struct {
	Style          string  `json:"style"`
	AvgMessageLen  float64 `json:"avg_message_length"`
	EmojiRate      float64 `json:"emoji_usage"`
	Expressiveness float64 `json:"expressiveness"`
	Confidence     float64 `json:"confidence"`
}

// CultureAssessment describes the community's communication culture.
type CultureAssessment struct {
	CultureType      string  `json:"culture_type"`
	PersonaAlignment string  `json:"persona_alignment"`
	ActivityLevel    string  `json:"activity_level"`
	Confidence       float64 `json:"confidence"`
}

// Interaction is a short preview of a target message, used as writing context.
type Interaction struct {
	ContentPreview string   `json:"content_preview"`
	MentionedUsers []string `json:"mentioned_users,omitempty"`
	MessageLength  int      `json:"message_length"`
	ChannelID      string   `json:"channel_id"`
}

// ContextAnalysis is the output of the analyze stage.
type ContextAnalysis struct {
	CommunicationStyle CommunicationStyle `json:"user_communication_style"`
	ActiveTopics       []string           `json:"active_topics"`
	Culture            CultureAssessment  `json:"server_culture_assessment"`
	RelevanceFactors   map[string]float64 `json:"relevance_factors"`
	UserInterests      []string           `json:"user_interests"`
	RecentInteractions []Interaction      `json:"recent_interactions"`
	Reasoning          string             `json:"reasoning"`
}

// ContentConcept is one candidate idea for the leak, with its scores.
type ContentConcept struct {
	ID                   string  `json:"concept_id"`
	Description          string  `json:"description"`
	RelevanceScore       float64 `json:"relevance_score"`
	AppropriatenessScore float64 `json:"appropriateness_score"`
	ServerFitScore       float64 `json:"server_fit_score"`
	OverallScore         float64 `json:"overall_score"`
	Reasoning            string  `json:"reasoning"`
	Theme                string  `json:"theme"`
	Hooks                string  `json:"hooks"`
}

// ContentPlan is the output of the plan stage.
type ContentPlan struct {
	SelectedConcept *ContentConcept   `json:"selected_concept"`
	Alternatives    []ContentConcept  `json:"alternative_concepts"`
	Persona         StyleProfile      `json:"persona_requirements"`
	Guidelines      map[string]string `json:"content_guidelines,omitempty"`
	Reasoning       string            `json:"reasoning"`
}

// LeakContent is the final fabricated leak.
type LeakContent struct {
	Content               string `json:"content"`
	ReliabilityPercentage int    `json:"reliability_percentage"`
	SourceAttribution     string `json:"source_attribution"`
	ContentLength         int    `json:"content_length"`
	Reasoning             string `json:"reasoning"`
}

// SelectionStats summarizes the recent-target registry for one community.
type SelectionStats struct {
	TotalRecentTargets   int     `json:"total_recent_targets"`
	TargetsInLast24h     int     `json:"targets_in_last_24h"`
	OldestTargetAgeHours float64 `json:"oldest_target_age_hours"`
}
