package generate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sozhaa-tech/chatbot-api/pkg/anthropic"
)

// Generator produces the assistant reply for a prompt. Implementations
// must never fail: any provider problem is absorbed into a fallback
// reply string.
type Generator interface {
	Reply(ctx context.Context, conversation string) string
}

// Fallbacks are the degraded replies substituted for provider failures.
type Fallbacks struct {
	// Empty is returned when the provider succeeds but yields no text.
	Empty string
	// Unavailable is returned when the provider call fails outright.
	Unavailable string
}

// AnthropicGenerator answers with a single streamed Anthropic message.
// The static system prompt is sent with a cache breakpoint since it is
// identical for every request.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	system    []anthropic.SystemBlock
	fallbacks Fallbacks
}

// New creates an AnthropicGenerator.
func New(client anthropic.Client, model string, maxTokens int64, systemPrompt string, fb Fallbacks) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		system:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		fallbacks: fb,
	}
}

// Reply makes one generation attempt. There is no retry: a slow or
// failing provider degrades to the fallback apology and the request
// still succeeds.
func (g *AnthropicGenerator) Reply(ctx context.Context, conversation string) string {
	resp, err := g.client.StreamMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    g.system,
		Messages:  []anthropic.Message{{Role: "user", Content: conversation}},
	})
	if err != nil {
		zap.L().Error("generation failed", zap.Error(err))
		return g.fallbacks.Unavailable
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		zap.L().Warn("generation returned no text", zap.String("stop_reason", resp.StopReason))
		return g.fallbacks.Empty
	}
	return text
}
