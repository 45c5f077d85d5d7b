package leak

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

// GenerationState tracks where a generation is in the pipeline.
type GenerationState string

const (
	StateSelecting GenerationState = "SELECTING"
	StateAnalyzing GenerationState = "ANALYZING"
	StatePlanning  GenerationState = "PLANNING"
	StateWriting   GenerationState = "WRITING"
	StateDone      GenerationState = "DONE"
	StateNoTarget  GenerationState = "NO_TARGET"
)

// GenerateRequest is one leak generation invocation.
type GenerateRequest struct {
	CommunityID    string            `json:"community_id"`
	InvokingUserID string            `json:"invoking_user_id"`
	Persona        Persona           `json:"persona"`
	Window         []Message         `json:"window"`
	Guidelines     map[string]string `json:"guidelines,omitempty"`
}

// GenerateResult carries the leak plus the intermediate stage outputs for
// callers that want the reasoning trail.
type GenerateResult struct {
	Target   *Candidate       `json:"-"`
	Analysis *ContextAnalysis `json:"analysis,omitempty"`
	Plan     *ContentPlan     `json:"plan,omitempty"`
	Leak     *LeakContent     `json:"leak"`
	Strategy string           `json:"strategy"`
	State    GenerationState  `json:"state"`
}

// OrchestratorConfig wires the pipeline stages together.
type OrchestratorConfig struct {
	Selector *Selector
	Analyzer *Analyzer
	Planner  *Planner
	Writer   *Writer
	Provider llm.Provider
	Logger   logging.Logger
}

// Orchestrator runs selection once, then tries generation strategies in
// order: the full analyze/plan/write chain, a single-call simplified
// generation, and finally a pure template generator. Stages already absorb
// their own failures; the orchestrator only catches what escapes them, so
// the worst case is still a complete LeakContent.
type Orchestrator struct {
	selector *Selector
	analyzer *Analyzer
	planner  *Planner
	writer   *Writer
	provider llm.Provider
	logger   logging.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		selector: cfg.Selector,
		analyzer: cfg.Analyzer,
		planner:  cfg.Planner,
		writer:   cfg.Writer,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	persona := ParsePersona(string(req.Persona))

	target, err := o.selector.Select(ctx, req.Window, req.InvokingUserID, req.CommunityID)
	if err != nil {
		if errors.Is(err, ErrNoCandidates) {
			noTargetTotal.Inc()
			return &GenerateResult{State: StateNoTarget}, err
		}
		return nil, err
	}

	result := &GenerateResult{Target: target, State: StateSelecting}

	strategies := []struct {
		name string
		run  func(context.Context, *GenerateResult) *LeakContent
	}{
		{"chain", func(ctx context.Context, r *GenerateResult) *LeakContent {
			return o.runChain(ctx, r, req, persona)
		}},
		{"simplified", func(ctx context.Context, r *GenerateResult) *LeakContent {
			return o.runSimplified(ctx, target.DisplayName, persona)
		}},
		{"template", func(ctx context.Context, r *GenerateResult) *LeakContent {
			return o.runTemplate(req.Window, target.DisplayName, persona)
		}},
	}

	for _, strategy := range strategies {
		leak, strategyErr := o.tryStrategy(ctx, strategy.name, strategy.run, result)
		if strategyErr != nil {
			generationsTotal.WithLabelValues(strategy.name, "error").Inc()
			if o.logger != nil {
				o.logger.WithFields(logging.Fields{
					"community_id": req.CommunityID,
					"strategy":     strategy.name,
					"error":        strategyErr.Error(),
				}).Warn("Orchestrator: generation strategy failed, trying next")
			}
			continue
		}
		generationsTotal.WithLabelValues(strategy.name, "success").Inc()
		result.Leak = leak
		result.Strategy = strategy.name
		result.State = StateDone
		if o.logger != nil {
			o.logger.WithFields(logging.Fields{
				"community_id": req.CommunityID,
				"strategy":     strategy.name,
				"target":       target.UserID,
			}).Info("Orchestrator: leak generation completed")
		}
		return result, nil
	}

	// Unreachable in practice since the template strategy cannot fail, but
	// the contract is a leak no matter what.
	result.Leak = fallbackLeakContent(target.DisplayName, persona)
	result.Strategy = "template"
	result.State = StateDone
	return result, nil
}

// Stats reports the recent-target registry for a community.
func (o *Orchestrator) Stats(communityID string) SelectionStats {
	return o.selector.Stats(communityID)
}

// tryStrategy runs one strategy, converting an escaped panic into an error
// so the next strategy gets its turn.
func (o *Orchestrator) tryStrategy(
	ctx context.Context,
	name string,
	run func(context.Context, *GenerateResult) *LeakContent,
	result *GenerateResult,
) (leak *LeakContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			leak = nil
			err = fmt.Errorf("strategy %s panicked: %v", name, r)
		}
	}()

	leak = run(ctx, result)
	if leak == nil {
		return nil, fmt.Errorf("strategy %s produced no content", name)
	}
	return leak, nil
}

func (o *Orchestrator) runChain(ctx context.Context, result *GenerateResult, req GenerateRequest, persona Persona) *LeakContent {
	result.State = StateAnalyzing
	result.Analysis = o.analyzer.Analyze(ctx, result.Target, req.Window, persona)

	result.State = StatePlanning
	result.Plan = o.planner.Plan(ctx, result.Analysis, persona, req.Guidelines)

	result.State = StateWriting
	return o.writer.Write(ctx, result.Plan, persona, result.Target.DisplayName)
}

// runSimplified is one completion with minimal context, used only when the
// full chain escapes its own guards.
func (o *Orchestrator) runSimplified(ctx context.Context, targetName string, persona Persona) *LeakContent {
	style := persona.Style()
	prompt := fmt.Sprintf(`Write one short, humorous, completely harmless fake "leak" about %s.
Tone: %s. Style: %s. Maximum %d characters.
The leak must be obviously satirical and appropriate for all audiences.
Write ONLY the leak text itself.`,
		targetName, style.Tone, style.Style, style.MaxLength)

	response, err := completeText(ctx, o.provider, "simplified", llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.8,
		MaxTokens:   300,
	})
	if err != nil {
		return nil
	}

	text := cleanContent(response, style.MaxLength)
	reliability := reliabilityPercentage()
	return &LeakContent{
		Content:               text,
		ReliabilityPercentage: reliability,
		SourceAttribution:     pickAttribution(persona),
		ContentLength:         len(text),
		Reasoning:             "Simplified single-call generation with minimal context.",
	}
}

// runTemplate is the last line of defense and involves no model at all.
func (o *Orchestrator) runTemplate(window []Message, targetName string, persona Persona) *LeakContent {
	topics := extractActiveTopics(window)
	text := templateLeak(targetName, persona, topics)
	return &LeakContent{
		Content:               text,
		ReliabilityPercentage: 12 + rand.Intn(88),
		SourceAttribution:     pickAttribution(persona),
		ContentLength:         len(text),
		Reasoning:             "Template-based generation keyed by persona and active topics.",
	}
}
