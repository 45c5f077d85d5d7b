package leak

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzerTarget() *Candidate {
	return &Candidate{UserID: "user-1", DisplayName: "Casey"}
}

func TestCommunicationStyleMinimalOnNoMessages(t *testing.T) {
	style := analyzeCommunicationStyle(nil)
	assert.Equal(t, "minimal", style.Style)
	assert.InDelta(t, 0.1, style.Confidence, 0.001)
}

func TestCommunicationStyleExpressive(t *testing.T) {
	messages := []string{
		"that was amazing!!",
		"no way!!",
		"I cannot believe it!",
	}
	style := analyzeCommunicationStyle(messages)
	assert.Equal(t, "expressive", style.Style)
	assert.InDelta(t, 0.3, style.Confidence, 0.001)
}

func TestCommunicationStyleInquisitive(t *testing.T) {
	messages := []string{
		"what do you think about this map rotation?",
		"is that actually true though?",
		"why would anyone pick that option?",
	}
	style := analyzeCommunicationStyle(messages)
	assert.Equal(t, "inquisitive", style.Style)
}

func TestCommunicationStyleNeutral(t *testing.T) {
	messages := []string{
		"I went to the store earlier and picked up some groceries",
	}
	style := analyzeCommunicationStyle(messages)
	assert.Equal(t, "neutral", style.Style)
}

func TestExtractActiveTopicsDefaultOnEmptyWindow(t *testing.T) {
	topics := extractActiveTopics(nil)
	assert.Equal(t, []string{"general chat", "community"}, topics)
}

func TestExtractActiveTopicsGaming(t *testing.T) {
	now := time.Now()
	var window []Message
	for i := 0; i < 5; i++ {
		window = append(window, Message{
			AuthorID:  "user-1",
			Content:   "that game was wild, the boss on the last level took forever",
			CreatedAt: now,
		})
	}

	topics := extractActiveTopics(window)
	require.NotEmpty(t, topics)
	assert.Equal(t, "gaming", topics[0])
	assert.LessOrEqual(t, len(topics), 5)
}

func TestAssessCultureActivityLevels(t *testing.T) {
	now := time.Now()
	var window []Message
	for i := 0; i < 18; i++ {
		window = append(window, Message{AuthorID: "u", Content: "thanks, that was awesome, love it", CreatedAt: now})
	}

	culture := assessCulture(window, PersonaSassyReporter)
	assert.Equal(t, "friendly", culture.CultureType)
	assert.Equal(t, "high", culture.ActivityLevel)
	assert.Equal(t, string(PersonaSassyReporter), culture.PersonaAlignment)
}

func TestIdentifyInterestsDefault(t *testing.T) {
	assert.Equal(t, []string{"general topics"}, identifyInterests(nil))
	assert.Equal(t, []string{"general topics"}, identifyInterests([]string{"hello there everyone"}))
}

func TestIdentifyInterestsCategories(t *testing.T) {
	interests := identifyInterests([]string{
		"just got a new game on steam",
		"been listening to that album on spotify all week",
	})
	assert.Contains(t, interests, "gaming")
	assert.Contains(t, interests, "music")
}

func TestAnalyzeInteractionsPreviews(t *testing.T) {
	long := strings.Repeat("x", 80)
	window := []Message{
		{AuthorID: "user-1", Content: long, ChannelID: "general"},
		{AuthorID: "user-1", Content: "short"},
		{AuthorID: "user-2", Content: long},
	}

	interactions := analyzeInteractions(window, "user-1")
	require.Len(t, interactions, 1)
	assert.Equal(t, long[:50]+"...", interactions[0].ContentPreview)
	assert.Equal(t, 80, interactions[0].MessageLength)
}

func TestAnalyzeUsesModelScores(t *testing.T) {
	provider := &stubProvider{
		response: "GAMING_RELEVANCE: 0.9\nSOCIAL_RELEVANCE: 0.2\nHOBBY_RELEVANCE: 0.4\nMEME_RELEVANCE: 0.1\nPERSONALITY_RELEVANCE: 0.6",
	}
	a := NewAnalyzer(AnalyzerConfig{Provider: provider})
	window := windowFor(3, 3, 40, time.Now())

	analysis := a.Analyze(context.Background(), analyzerTarget(), window, PersonaDefault)
	require.NotNil(t, analysis)
	assert.InDelta(t, 0.9, analysis.RelevanceFactors["gaming"], 0.001)
	assert.InDelta(t, 0.2, analysis.RelevanceFactors["social"], 0.001)
	assert.InDelta(t, 0.6, analysis.RelevanceFactors["personality"], 0.001)

	assert.InDelta(t, 0.3, provider.lastReq.Temperature, 0.001)
	assert.Equal(t, 300, provider.lastReq.MaxTokens)
}

func TestAnalyzeHeuristicFactorsOnModelFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	a := NewAnalyzer(AnalyzerConfig{Provider: provider})

	now := time.Now()
	var window []Message
	for i := 0; i < 5; i++ {
		window = append(window, Message{
			AuthorID:  "user-1",
			Content:   "playing a new game on steam tonight, anyone in",
			CreatedAt: now,
		})
	}

	analysis := a.Analyze(context.Background(), analyzerTarget(), window, PersonaDefault)
	require.NotNil(t, analysis)
	assert.InDelta(t, 0.8, analysis.RelevanceFactors["gaming"], 0.001)
	assert.InDelta(t, 0.6, analysis.RelevanceFactors["social"], 0.001)
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})
	window := windowFor(3, 3, 40, time.Now())

	analysis := a.Analyze(context.Background(), analyzerTarget(), window, PersonaDefault)
	require.NotNil(t, analysis)
	assert.Len(t, analysis.RelevanceFactors, 5)
	assert.NotEmpty(t, analysis.Reasoning)
}
