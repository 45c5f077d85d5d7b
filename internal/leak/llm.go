package leak

import (
	"context"
	"errors"
	"time"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
)

// llmCallTimeout bounds a single model call. Stages fall back rather than
// block the whole generation on a slow provider.
const llmCallTimeout = 30 * time.Second

var errNoProvider = errors.New("no model provider configured")

// completeText runs one completion through the provider with per-stage
// metrics and a hard timeout. Callers treat any error as a fallback trigger.
func completeText(ctx context.Context, provider llm.Provider, stage string, req llm.Request) (string, error) {
	if provider == nil {
		llmCallsTotal.WithLabelValues(stage, "skipped").Inc()
		return "", errNoProvider
	}

	callCtx, cancel := context.WithTimeout(ctx, llmCallTimeout)
	defer cancel()

	start := time.Now()
	text, err := llm.Collect(callCtx, provider, req)
	llmDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		llmCallsTotal.WithLabelValues(stage, "error").Inc()
		return "", err
	}
	llmCallsTotal.WithLabelValues(stage, "success").Inc()
	return text, nil
}
