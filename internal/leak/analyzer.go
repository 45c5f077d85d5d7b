package leak

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

var (
	emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]|:[a-z_]+:`)
	capsPattern  = regexp.MustCompile(`[A-Z]{2,}`)
)

// styleIndicators are checked in order. The first one that fires becomes the
// primary style.
var styleIndicatorOrder = []string{"expressive", "inquisitive", "casual", "formal", "energetic"}

var topicKeywords = map[string][]string{
	"gaming": {"game", "play", "win", "lose", "level", "boss", "pvp", "raid", "stream", "twitch"},
	"anime":  {"anime", "manga", "episode", "season", "character", "waifu", "otaku"},
	"music":  {"song", "album", "listen", "band", "artist", "concert", "music", "lyrics"},
	"food":   {"eat", "food", "cook", "recipe", "restaurant", "hungry", "delicious", "meal"},
	"work":   {"work", "job", "boss", "office", "meeting", "project", "deadline", "salary"},
	"school": {"school", "class", "teacher", "exam", "study", "homework", "grade", "university"},
	"movies": {"movie", "film", "watch", "cinema", "actor", "director", "scene", "netflix"},
	"tech":   {"computer", "phone", "app", "software", "code", "program", "update", "bug"},
	"memes":  {"meme", "lol", "lmao", "funny", "joke", "kek", "poggers", "based", "cringe"},
}

var cultureKeywords = map[string][]string{
	"friendly":    {"thanks", "welcome", "nice", "good", "great", "awesome", "love"},
	"competitive": {"win", "beat", "best", "top", "rank", "compete", "challenge"},
	"casual":      {"lol", "lmao", "haha", "chill", "cool", "nice", "yeah"},
	"technical":   {"code", "build", "system", "config", "debug", "install", "setup"},
	"creative":    {"art", "draw", "create", "design", "make", "build", "craft"},
	"meme-heavy":  {"meme", "kek", "poggers", "based", "cringe", "sus", "bruh"},
}

var interestKeywords = map[string][]string{
	"gaming":     {"game", "play", "steam", "xbox", "playstation", "nintendo", "pc"},
	"anime":      {"anime", "manga", "episode", "character", "season"},
	"music":      {"music", "song", "band", "album", "listen", "spotify"},
	"technology": {"tech", "computer", "phone", "app", "software", "code"},
	"food":       {"food", "cook", "eat", "recipe", "restaurant"},
	"fitness":    {"gym", "workout", "exercise", "run", "lift", "fitness"},
	"movies":     {"movie", "film", "watch", "netflix", "cinema"},
	"art":        {"art", "draw", "paint", "design", "create"},
	"books":      {"book", "read", "novel", "story", "author"},
	"travel":     {"travel", "trip", "vacation", "visit", "country"},
}

// AnalyzerConfig configures the context analysis stage.
type AnalyzerConfig struct {
	Provider llm.Provider
	Logger   logging.Logger
}

// Analyzer builds a ContextAnalysis from the message window and the target's
// own messages. Only the relevance factors involve a model call; everything
// else is deterministic, and every path has a fallback, so Analyze never
// fails.
type Analyzer struct {
	provider llm.Provider
	logger   logging.Logger
	scores   ScoreExtractor
}

func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, target *Candidate, window []Message, persona Persona) (analysis *ContextAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.WithFields(logging.Fields{"panic": fmt.Sprint(r)}).Error("Analyzer: context analysis panicked, using fallback")
			}
			stageFallbacksTotal.WithLabelValues("analyze").Inc()
			analysis = fallbackAnalysis(target.DisplayName, persona)
		}
	}()

	targetMessages := extractTargetMessages(window, target.UserID)

	style := analyzeCommunicationStyle(targetMessages)
	topics := extractActiveTopics(window)
	culture := assessCulture(window, persona)
	interests := identifyInterests(targetMessages)
	interactions := analyzeInteractions(window, target.UserID)

	factors := a.relevanceFactors(ctx, target.DisplayName, style, interests, topics, culture, persona)

	return &ContextAnalysis{
		CommunicationStyle: style,
		ActiveTopics:       topics,
		Culture:            culture,
		RelevanceFactors:   factors,
		UserInterests:      interests,
		RecentInteractions: interactions,
		Reasoning:          reasoningSummary(target.DisplayName, style, topics, interests, factors),
	}
}

// extractTargetMessages pulls the target's substantive messages from the
// last 50 in the window, keeping the most recent 10.
func extractTargetMessages(window []Message, targetUserID string) []string {
	if len(window) > 50 {
		window = window[len(window)-50:]
	}
	var out []string
	for _, msg := range window {
		if msg.AuthorID == targetUserID && len(strings.TrimSpace(msg.Content)) > 5 {
			out = append(out, msg.Content)
		}
	}
	if len(out) > 10 {
		out = out[len(out)-10:]
	}
	return out
}

func analyzeCommunicationStyle(targetMessages []string) CommunicationStyle {
	if len(targetMessages) == 0 {
		return CommunicationStyle{Style: "minimal", Confidence: 0.1}
	}

	var totalChars, emojiCount, capsCount, questionCount, exclamationCount int
	for _, msg := range targetMessages {
		totalChars += len(msg)
		emojiCount += len(emojiPattern.FindAllString(msg, -1))
		capsCount += len(capsPattern.FindAllString(msg, -1))
		questionCount += strings.Count(msg, "?")
		exclamationCount += strings.Count(msg, "!")
	}
	avgLength := float64(totalChars) / float64(len(targetMessages))

	indicators := map[string]bool{
		"expressive":  emojiCount > 5 || exclamationCount > 3,
		"inquisitive": questionCount > 2,
		"casual":      avgLength < 50 && emojiCount > 2,
		"formal":      avgLength > 100 && capsCount < 2,
		"energetic":   capsCount > 3 || exclamationCount > 5,
	}

	primary := "neutral"
	for _, name := range styleIndicatorOrder {
		if indicators[name] {
			primary = name
			break
		}
	}

	n := float64(len(targetMessages))
	confidence := n / 10
	if confidence > 1 {
		confidence = 1
	}
	return CommunicationStyle{
		Style:          primary,
		AvgMessageLen:  avgLength,
		EmojiRate:      float64(emojiCount) / n,
		Expressiveness: float64(exclamationCount+questionCount) / n,
		Confidence:     confidence,
	}
}

// extractActiveTopics scores keyword hits across the last 30 substantive
// human messages and returns up to five topics by frequency.
func extractActiveTopics(window []Message) []string {
	if len(window) > 30 {
		window = window[len(window)-30:]
	}
	var contents []string
	for _, msg := range window {
		if !msg.Bot && len(strings.TrimSpace(msg.Content)) > 10 {
			contents = append(contents, strings.ToLower(msg.Content))
		}
	}
	if len(contents) == 0 {
		return []string{"general chat", "community"}
	}

	text := strings.Join(contents, " ")
	type topicScore struct {
		topic string
		score int
	}
	var scored []topicScore
	for topic, keywords := range topicKeywords {
		score := 0
		for _, kw := range keywords {
			score += strings.Count(text, kw)
		}
		if score > 0 {
			scored = append(scored, topicScore{topic, score})
		}
	}
	if len(scored) == 0 {
		return []string{"general chat"}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].topic < scored[j].topic
	})
	if len(scored) > 5 {
		scored = scored[:5]
	}
	topics := make([]string, len(scored))
	for i, ts := range scored {
		topics[i] = ts.topic
	}
	return topics
}

func assessCulture(window []Message, persona Persona) CultureAssessment {
	if len(window) == 0 {
		return CultureAssessment{CultureType: "neutral", PersonaAlignment: string(persona), Confidence: 0.1}
	}
	if len(window) > 20 {
		window = window[len(window)-20:]
	}
	var contents []string
	for _, msg := range window {
		if !msg.Bot {
			contents = append(contents, strings.ToLower(msg.Content))
		}
	}
	text := strings.Join(contents, " ")

	primary := "neutral"
	best := 0
	// Deterministic iteration so keyword ties resolve the same way each run.
	cultures := []string{"friendly", "competitive", "casual", "technical", "creative", "meme-heavy"}
	for _, culture := range cultures {
		score := 0
		for _, kw := range cultureKeywords[culture] {
			score += strings.Count(text, kw)
		}
		if score > best {
			best = score
			primary = culture
		}
	}

	activity := "low"
	if len(contents) > 15 {
		activity = "high"
	} else if len(contents) > 5 {
		activity = "moderate"
	}

	confidence := float64(len(contents)) / 20
	if confidence > 1 {
		confidence = 1
	}
	return CultureAssessment{
		CultureType:      primary,
		PersonaAlignment: string(persona),
		ActivityLevel:    activity,
		Confidence:       confidence,
	}
}

func identifyInterests(targetMessages []string) []string {
	if len(targetMessages) == 0 {
		return []string{"general topics"}
	}
	content := strings.ToLower(strings.Join(targetMessages, " "))

	// Stable order keeps the output reproducible for identical input.
	categories := []string{"gaming", "anime", "music", "technology", "food", "fitness", "movies", "art", "books", "travel"}
	var interests []string
	for _, interest := range categories {
		for _, kw := range interestKeywords[interest] {
			if strings.Contains(content, kw) {
				interests = append(interests, interest)
				break
			}
		}
	}
	if len(interests) == 0 {
		return []string{"general topics"}
	}
	return interests
}

// analyzeInteractions previews the target's recent substantive messages,
// keeping the last 5.
func analyzeInteractions(window []Message, targetUserID string) []Interaction {
	if len(window) > 20 {
		window = window[len(window)-20:]
	}
	var interactions []Interaction
	for _, msg := range window {
		if msg.AuthorID != targetUserID {
			continue
		}
		if len(msg.Mentions) == 0 && len(msg.Content) <= 20 {
			continue
		}
		preview := msg.Content
		if len(preview) > 50 {
			preview = preview[:50] + "..."
		}
		interactions = append(interactions, Interaction{
			ContentPreview: preview,
			MentionedUsers: msg.Mentions,
			MessageLength:  len(msg.Content),
			ChannelID:      msg.ChannelID,
		})
	}
	if len(interactions) > 5 {
		interactions = interactions[len(interactions)-5:]
	}
	return interactions
}

func (a *Analyzer) relevanceFactors(
	ctx context.Context,
	targetName string,
	style CommunicationStyle,
	interests []string,
	topics []string,
	culture CultureAssessment,
	persona Persona,
) map[string]float64 {
	prompt := fmt.Sprintf(`Analyze the following context to determine relevance factors for generating humorous leak content about %s.

USER CONTEXT:
- Communication Style: %s (confidence: %.2f)
- Average Message Length: %.1f characters
- Expressiveness: %.2f
- User Interests: %s

SERVER CONTEXT:
- Active Topics: %s
- Server Culture: %s
- Activity Level: %s
- Bot Persona: %s

Please provide relevance scores (0.0 to 1.0) for different content types:

GAMING_RELEVANCE: [0.0-1.0] - How relevant are gaming references?
SOCIAL_RELEVANCE: [0.0-1.0] - How relevant are social interaction themes?
HOBBY_RELEVANCE: [0.0-1.0] - How relevant are hobby/interest references?
MEME_RELEVANCE: [0.0-1.0] - How relevant is meme culture content?
PERSONALITY_RELEVANCE: [0.0-1.0] - How relevant are personality-based jokes?

Provide brief reasoning for each score.`,
		targetName,
		style.Style, style.Confidence,
		style.AvgMessageLen,
		style.Expressiveness,
		strings.Join(interests, ", "),
		strings.Join(topics, ", "),
		culture.CultureType,
		culture.ActivityLevel,
		persona,
	)

	response, err := completeText(ctx, a.provider, "analyze", llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		if a.logger != nil {
			a.logger.WithFields(logging.Fields{"error": err.Error()}).Warn("Analyzer: relevance model call failed, using heuristic factors")
		}
		stageFallbacksTotal.WithLabelValues("analyze").Inc()
		return heuristicRelevanceFactors(style, interests, topics, culture)
	}

	return map[string]float64{
		"gaming":      a.scores.ExtractScore(response, "GAMING_RELEVANCE"),
		"social":      a.scores.ExtractScore(response, "SOCIAL_RELEVANCE"),
		"hobby":       a.scores.ExtractScore(response, "HOBBY_RELEVANCE"),
		"meme":        a.scores.ExtractScore(response, "MEME_RELEVANCE"),
		"personality": a.scores.ExtractScore(response, "PERSONALITY_RELEVANCE"),
	}
}

// heuristicRelevanceFactors stands in when the model is unavailable, nudged
// by the deterministic signals already extracted.
func heuristicRelevanceFactors(style CommunicationStyle, interests, topics []string, culture CultureAssessment) map[string]float64 {
	factors := map[string]float64{
		"gaming":      0.5,
		"social":      0.6,
		"hobby":       0.5,
		"meme":        0.4,
		"personality": 0.7,
	}
	if containsString(interests, "gaming") {
		factors["gaming"] = 0.8
	}
	if containsString(topics, "memes") || culture.CultureType == "meme-heavy" {
		factors["meme"] = 0.8
	}
	if style.Style == "expressive" || style.Style == "energetic" {
		factors["personality"] = 0.8
	}
	return factors
}

func reasoningSummary(targetName string, style CommunicationStyle, topics, interests []string, factors map[string]float64) string {
	topFactor, topScore := "personality", 0.0
	for name, score := range factors {
		if score > topScore || (score == topScore && name < topFactor) {
			topFactor, topScore = name, score
		}
	}

	return fmt.Sprintf(`Context Analysis for %s:

User Profile: %s communicator with %.0f%% confidence
Primary Interests: %s
Server Activity: %s

Highest Relevance Factor: %s (%.2f)
Content Strategy: Focus on %s-related humor with server culture integration.`,
		targetName,
		style.Style, style.Confidence*100,
		strings.Join(firstN(interests, 3), ", "),
		strings.Join(firstN(topics, 3), ", "),
		topFactor, topScore,
		topFactor,
	)
}

func fallbackAnalysis(targetName string, persona Persona) *ContextAnalysis {
	return &ContextAnalysis{
		CommunicationStyle: CommunicationStyle{Style: "neutral", Confidence: 0.3},
		ActiveTopics:       []string{"general chat"},
		Culture:            CultureAssessment{CultureType: "neutral", PersonaAlignment: string(persona)},
		RelevanceFactors: map[string]float64{
			"gaming":      0.5,
			"social":      0.6,
			"hobby":       0.4,
			"meme":        0.4,
			"personality": 0.7,
		},
		UserInterests: []string{"general topics"},
		Reasoning:     fmt.Sprintf("Minimal context available for %s. Using general content strategy.", targetName),
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
