package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/metrics"
	"github.com/abhisek/skillpath/internal/store"
)

// EventRecorder persists one row per model request.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// RecordingProvider stores every request and response as an llm event and
// feeds the request metrics. A failure to record never fails the request.
type RecordingProvider struct {
	inner   Provider
	backend string
	events  EventRecorder
	logger  *zap.Logger
	nowFunc func() time.Time
}

func WithRecording(p Provider, backend string, events EventRecorder, logger *zap.Logger) *RecordingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingProvider{
		inner:   p,
		backend: backend,
		events:  events,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)
	start := r.nowFunc()
	resp, err := r.inner.Generate(ctx, req)
	elapsed := r.nowFunc().Sub(start)

	metrics.ObserveLLM(purpose, elapsed, err)

	data := store.LLMRequestEventData{
		Provider:    r.backend,
		Model:       r.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		r.logger.Warn("model request failed",
			zap.String("purpose", purpose),
			zap.String("model", data.Model),
			zap.Error(err))
	} else {
		r.logger.Debug("model request",
			zap.String("purpose", purpose),
			zap.String("model", data.Model),
			zap.Int64("latency_ms", data.LatencyMs),
			zap.Int("output_tokens", data.OutputTokens))
	}

	if r.events != nil {
		if recErr := r.events.AppendLLMRequest(ctx, data); recErr != nil {
			r.logger.Warn("record llm event", zap.Error(recErr))
		}
	}
	return resp, err
}

// renderRequest flattens a request into the text stored on the event.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
