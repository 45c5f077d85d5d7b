package leak

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

// emptyContentReplacement is used when cleaning leaves nothing usable.
const emptyContentReplacement = "Sources report suspicious activity involving snacks and questionable life choices. 🤐"

// reliabilityBands weight the fake reliability score towards the suspicious
// end. Bands are half-open [lo, hi).
var reliabilityBands = []struct {
	lo, hi int
	weight float64
}{
	{12, 30, 0.3},
	{30, 50, 0.4},
	{50, 75, 0.25},
	{75, 99, 0.05},
}

// WriterConfig configures the final writing stage.
type WriterConfig struct {
	Provider llm.Provider
	Logger   logging.Logger
}

// Writer renders the selected concept into final leak content in the
// persona's voice. Any failure, including a missing concept or a model
// error, produces a complete template-based fallback, so Write never fails.
type Writer struct {
	provider llm.Provider
	logger   logging.Logger
}

func NewWriter(cfg WriterConfig) *Writer {
	return &Writer{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

func (w *Writer) Write(ctx context.Context, plan *ContentPlan, persona Persona, targetName string) (content *LeakContent) {
	defer func() {
		if r := recover(); r != nil {
			if w.logger != nil {
				w.logger.WithFields(logging.Fields{"panic": fmt.Sprint(r)}).Error("Writer: leak writing panicked, using fallback content")
			}
			stageFallbacksTotal.WithLabelValues("write").Inc()
			content = fallbackLeakContent(targetName, persona)
		}
	}()

	if plan == nil || plan.SelectedConcept == nil {
		stageFallbacksTotal.WithLabelValues("write").Inc()
		return fallbackLeakContent(targetName, persona)
	}

	text, err := w.generateContent(ctx, plan, persona, targetName)
	if err != nil {
		if w.logger != nil {
			w.logger.WithFields(logging.Fields{"error": err.Error()}).Warn("Writer: content model call failed, using fallback content")
		}
		stageFallbacksTotal.WithLabelValues("write").Inc()
		return fallbackLeakContent(targetName, persona)
	}

	reliability := reliabilityPercentage()
	result := &LeakContent{
		Content:               text,
		ReliabilityPercentage: reliability,
		SourceAttribution:     pickAttribution(persona),
		ContentLength:         len(text),
		Reasoning:             writingReasoning(plan, text, reliability),
	}

	if w.logger != nil {
		w.logger.WithFields(logging.Fields{
			"target":         targetName,
			"content_length": result.ContentLength,
			"reliability":    reliability,
		}).Info("Writer: leak writing completed")
	}
	return result
}

func (w *Writer) generateContent(ctx context.Context, plan *ContentPlan, persona Persona, targetName string) (string, error) {
	concept := plan.SelectedConcept
	maxLength := plan.Persona.MaxLength
	if maxLength <= 0 {
		maxLength = 150
	}

	prompt := fmt.Sprintf(`Write a humorous, harmless "leak" about %s using the following specifications:

CONTENT CONCEPT:
- Theme: %s
- Description: %s
- Content hooks: %s

PERSONA REQUIREMENTS:
- Tone: %s
- Style: %s
- Suggested phrases: %s
- Emojis to use: %s

CONTENT GUIDELINES:
- Maximum length: %d characters
- Must be completely harmless and appropriate for all audiences
- Focus on embarrassing but innocent scenarios
- Include specific details that make it feel "leaked" but obviously fake
- Make it server-relevant and community-friendly
- Use natural language and current slang where appropriate

WRITING STYLE FOR %s:
%s

Write ONLY the leak content itself. Do not include explanations or metadata.`,
		targetName,
		concept.Theme,
		concept.Description,
		concept.Hooks,
		plan.Persona.Tone,
		plan.Persona.Style,
		strings.Join(plan.Persona.Phrases, ", "),
		strings.Join(plan.Persona.Emojis, ", "),
		maxLength,
		persona,
		persona.styleGuide(),
	)

	response, err := completeText(ctx, w.provider, "write", llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.9,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}
	return cleanContent(response, maxLength), nil
}

// cleanContent strips wrapper quotes and metadata prefixes the model tends
// to add, then truncates at a sentence boundary to fit the persona limit.
func cleanContent(content string, maxLength int) string {
	content = strings.Trim(strings.TrimSpace(content), "\"'`")

	lower := strings.ToLower(content)
	for _, prefix := range []string{"leak:", "content:", "result:", "output:"} {
		if strings.HasPrefix(lower, prefix) {
			content = strings.TrimSpace(content[len(prefix):])
			break
		}
	}

	if len(content) > maxLength {
		sentences := strings.Split(content, ". ")
		truncated := sentences[0]
		for _, sentence := range sentences[1:] {
			if len(truncated)+2+len(sentence) <= maxLength-3 {
				truncated += ". " + sentence
			} else {
				break
			}
		}
		if len(truncated) < len(content) {
			content = truncated + "..."
		} else {
			content = truncated
		}
	}

	if len(strings.TrimSpace(content)) < 10 {
		return emptyContentReplacement
	}
	return content
}

func reliabilityPercentage() int {
	roll := rand.Float64()
	cumulative := 0.0
	for _, band := range reliabilityBands {
		cumulative += band.weight
		if roll <= cumulative {
			return band.lo + rand.Intn(band.hi-band.lo)
		}
	}
	return 23 + rand.Intn(45)
}

func pickAttribution(persona Persona) string {
	options := persona.attributions()
	return options[rand.Intn(len(options))]
}

func writingReasoning(plan *ContentPlan, finalContent string, reliability int) string {
	concept := plan.SelectedConcept
	return fmt.Sprintf(`Leak Writing Process:

Selected Concept: %s
Theme: %s
Final Content Length: %d characters
Reliability Score: %d%%

Writing Strategy: Focused on %s theme with persona-appropriate tone and style. Content designed to be obviously satirical while maintaining community-friendly humor.`,
		concept.ID,
		concept.Theme,
		len(finalContent),
		reliability,
		concept.Theme,
	)
}

// fallbackLeakContent builds a complete leak from the persona's template set
// when generation cannot run at all.
func fallbackLeakContent(targetName string, persona Persona) *LeakContent {
	templates := persona.fallbackTemplates(targetName)
	text := templates[rand.Intn(len(templates))]
	return &LeakContent{
		Content:               text,
		ReliabilityPercentage: 15 + rand.Intn(41),
		SourceAttribution:     "Anonymous Backup Source",
		ContentLength:         len(text),
		Reasoning:             "Fallback content generation due to model failure. Using persona-specific templates.",
	}
}
