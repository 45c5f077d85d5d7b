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

// conceptPattern parses CONCEPT_N_THEME / _DESC / _HOOKS blocks out of model
// output. Blocks are separated by blank lines in the requested format.
var conceptPattern = regexp.MustCompile(`(?is)CONCEPT_(\d+)_THEME:\s*(.+?)\s*\nCONCEPT_\d+_DESC:\s*(.+?)\s*\nCONCEPT_\d+_HOOKS:\s*(.+?)\s*(?:\n\s*\n|\nCONCEPT_|\z)`)

// themeRelevanceKeys maps theme keywords onto relevance factor names.
var themeRelevanceKeys = []struct {
	keyword string
	factor  string
}{
	{"gaming", "gaming"},
	{"tech", "gaming"},
	{"social", "social"},
	{"interaction", "social"},
	{"hobby", "hobby"},
	{"interest", "hobby"},
	{"personality", "personality"},
	{"quirk", "personality"},
}

var cultureFitScores = map[string]float64{
	"friendly":    0.8,
	"casual":      0.9,
	"meme-heavy":  0.8,
	"competitive": 0.7,
	"technical":   0.6,
	"creative":    0.7,
	"neutral":     0.6,
}

// PlannerConfig configures the content planning stage.
type PlannerConfig struct {
	Provider llm.Provider
	Logger   logging.Logger
}

// Planner turns a context analysis into a ranked set of content concepts.
// One model call generates candidate concepts; scoring and ranking are
// deterministic, and every failure path yields the fixed fallback concepts,
// so Plan never fails.
type Planner struct {
	provider llm.Provider
	logger   logging.Logger
}

func NewPlanner(cfg PlannerConfig) *Planner {
	return &Planner{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

func (p *Planner) Plan(ctx context.Context, analysis *ContextAnalysis, persona Persona, guidelines map[string]string) (plan *ContentPlan) {
	defer func() {
		if r := recover(); r != nil {
			if p.logger != nil {
				p.logger.WithFields(logging.Fields{"panic": fmt.Sprint(r)}).Error("Planner: content planning panicked, using fallback plan")
			}
			stageFallbacksTotal.WithLabelValues("plan").Inc()
			plan = fallbackPlan(persona, guidelines)
		}
	}()

	concepts := p.generateConcepts(ctx, analysis, persona)
	scored := scoreConcepts(concepts, analysis)

	selected := &scored[0]
	alternatives := scored[1:]
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	if p.logger != nil {
		p.logger.WithFields(logging.Fields{
			"concept_id":    selected.ID,
			"overall_score": selected.OverallScore,
			"alternatives":  len(alternatives),
		}).Info("Planner: content planning completed")
	}

	return &ContentPlan{
		SelectedConcept: selected,
		Alternatives:    alternatives,
		Persona:         persona.Style(),
		Guidelines:      guidelines,
		Reasoning:       planningReasoning(selected, alternatives),
	}
}

func (p *Planner) generateConcepts(ctx context.Context, analysis *ContextAnalysis, persona Persona) []ContentConcept {
	prompt := fmt.Sprintf(`Generate 4 different leak content concepts based on the following analysis:

CONTEXT ANALYSIS:
%s

USER INTERESTS: %s
ACTIVE TOPICS: %s
COMMUNICATION STYLE: %s
SERVER CULTURE: %s

RELEVANCE FACTORS:
- Gaming: %.2f
- Social: %.2f
- Hobby: %.2f
- Meme: %.2f
- Personality: %.2f

PERSONA: %s

Generate 4 distinct leak concepts, each focused on different themes:

CONCEPT_1_THEME: Gaming/Tech related embarrassment
CONCEPT_1_DESC: [Brief description of the concept]
CONCEPT_1_HOOKS: [Key elements to make it personal and funny]

CONCEPT_2_THEME: Social interaction mishap
CONCEPT_2_DESC: [Brief description of the concept]
CONCEPT_2_HOOKS: [Key elements to make it personal and funny]

CONCEPT_3_THEME: Hobby/Interest obsession
CONCEPT_3_DESC: [Brief description of the concept]
CONCEPT_3_HOOKS: [Key elements to make it personal and funny]

CONCEPT_4_THEME: Personality quirk revelation
CONCEPT_4_DESC: [Brief description of the concept]
CONCEPT_4_HOOKS: [Key elements to make it personal and funny]

Keep concepts harmless, humorous, and appropriate for the community.`,
		analysis.Reasoning,
		strings.Join(analysis.UserInterests, ", "),
		strings.Join(analysis.ActiveTopics, ", "),
		analysis.CommunicationStyle.Style,
		analysis.Culture.CultureType,
		relevanceOrDefault(analysis.RelevanceFactors, "gaming"),
		relevanceOrDefault(analysis.RelevanceFactors, "social"),
		relevanceOrDefault(analysis.RelevanceFactors, "hobby"),
		relevanceOrDefault(analysis.RelevanceFactors, "meme"),
		relevanceOrDefault(analysis.RelevanceFactors, "personality"),
		persona,
	)

	response, err := completeText(ctx, p.provider, "plan", llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.8,
		MaxTokens:   800,
	})
	if err != nil {
		if p.logger != nil {
			p.logger.WithFields(logging.Fields{"error": err.Error()}).Warn("Planner: concept model call failed, using fallback concepts")
		}
		stageFallbacksTotal.WithLabelValues("plan").Inc()
		return fallbackConcepts()
	}

	concepts := parseConcepts(response)
	if len(concepts) == 0 {
		if p.logger != nil {
			p.logger.Warn("Planner: no concepts parsed from model response, using fallback concepts")
		}
		stageFallbacksTotal.WithLabelValues("plan").Inc()
		return fallbackConcepts()
	}
	return concepts
}

func parseConcepts(response string) []ContentConcept {
	matches := conceptPattern.FindAllStringSubmatch(response, -1)
	concepts := make([]ContentConcept, 0, len(matches))
	for _, m := range matches {
		theme := strings.TrimSpace(m[2])
		concepts = append(concepts, ContentConcept{
			ID:                   "concept_" + m[1],
			Description:          strings.TrimSpace(m[3]),
			AppropriatenessScore: 1.0,
			Reasoning:            "Theme: " + theme,
			Theme:                theme,
			Hooks:                strings.TrimSpace(m[4]),
		})
	}
	return concepts
}

// scoreConcepts fills in relevance and server fit, computes the weighted
// overall score and returns concepts ranked best first.
func scoreConcepts(concepts []ContentConcept, analysis *ContextAnalysis) []ContentConcept {
	scored := make([]ContentConcept, len(concepts))
	copy(scored, concepts)

	for i := range scored {
		c := &scored[i]
		c.RelevanceScore = relevanceScore(c, analysis)
		c.ServerFitScore = serverFitScore(c, analysis)
		c.OverallScore = c.RelevanceScore*0.4 + c.AppropriatenessScore*0.3 + c.ServerFitScore*0.3
		c.Reasoning += fmt.Sprintf(" | Relevance: %.2f, Server Fit: %.2f, Overall: %.2f",
			c.RelevanceScore, c.ServerFitScore, c.OverallScore)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OverallScore > scored[j].OverallScore
	})
	return scored
}

func relevanceScore(concept *ContentConcept, analysis *ContextAnalysis) float64 {
	theme := strings.ToLower(concept.Theme)

	// Base relevance floor so an unmapped theme still scores.
	relevance := 0.3
	for _, mapping := range themeRelevanceKeys {
		if strings.Contains(theme, mapping.keyword) {
			if factor := relevanceOrDefault(analysis.RelevanceFactors, mapping.factor); factor > relevance {
				relevance = factor
			}
		}
	}

	desc := strings.ToLower(concept.Description)
	for _, interest := range analysis.UserInterests {
		interest = strings.ToLower(interest)
		if strings.Contains(theme, interest) || strings.Contains(desc, interest) {
			relevance += 0.2
			if relevance > 1 {
				relevance = 1
			}
			break
		}
	}
	return relevance
}

func serverFitScore(concept *ContentConcept, analysis *ContextAnalysis) float64 {
	base, ok := cultureFitScores[analysis.Culture.CultureType]
	if !ok {
		base = 0.6
	}

	conceptText := strings.ToLower(concept.Description + " " + concept.Theme + " " + concept.Hooks)
	for _, topic := range analysis.ActiveTopics {
		if strings.Contains(conceptText, strings.ToLower(topic)) {
			base += 0.1
		}
	}
	if base > 1 {
		base = 1
	}
	return base
}

func planningReasoning(selected *ContentConcept, alternatives []ContentConcept) string {
	if selected == nil {
		return "No suitable concepts generated. Using fallback approach."
	}
	return fmt.Sprintf(`Content Planning Decision:

Selected Concept: %s
Theme: %s
Relevance Score: %.2f
Server Fit Score: %.2f

Selection Reasoning:
%s

Alternative concepts considered: %d
Context factors: User interests align with selected theme, server culture supports this content type.`,
		selected.ID,
		selected.Theme,
		selected.RelevanceScore,
		selected.ServerFitScore,
		selected.Reasoning,
		len(alternatives),
	)
}

func fallbackConcepts() []ContentConcept {
	return []ContentConcept{
		{
			ID:                   "fallback_gaming",
			Description:          "Gaming-related embarrassing moment",
			RelevanceScore:       0.7,
			AppropriatenessScore: 1.0,
			ServerFitScore:       0.6,
			Reasoning:            "Fallback gaming concept",
			Theme:                "gaming",
			Hooks:                "funny failure",
		},
		{
			ID:                   "fallback_social",
			Description:          "Social interaction mishap",
			RelevanceScore:       0.6,
			AppropriatenessScore: 1.0,
			ServerFitScore:       0.7,
			Reasoning:            "Fallback social concept",
			Theme:                "social",
			Hooks:                "awkward moment",
		},
		{
			ID:                   "fallback_hobby",
			Description:          "Obsession with random topic",
			RelevanceScore:       0.5,
			AppropriatenessScore: 1.0,
			ServerFitScore:       0.5,
			Reasoning:            "Fallback hobby concept",
			Theme:                "hobby",
			Hooks:                "obsessive interest",
		},
	}
}

func fallbackPlan(persona Persona, guidelines map[string]string) *ContentPlan {
	concepts := fallbackConcepts()
	return &ContentPlan{
		SelectedConcept: &concepts[0],
		Alternatives:    concepts[1:],
		Persona:         persona.Style(),
		Guidelines:      guidelines,
		Reasoning:       "Fallback plan due to planning failure. Using generic concepts.",
	}
}

func relevanceOrDefault(factors map[string]float64, name string) float64 {
	if v, ok := factors[name]; ok {
		return v
	}
	return 0.5
}
