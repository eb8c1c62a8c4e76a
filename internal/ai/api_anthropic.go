package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/relaylabs/relay/internal/session"
	"github.com/relaylabs/relay/internal/stream"
)

const defaultMaxTokens = 1024

// fastSystemPrompt is the fixed system instruction for fast-mode replies.
const fastSystemPrompt = "You are a concise assistant replying inside a chat thread. " +
	"Answer directly, prefer short paragraphs, and use plain text."

// FastClient is the alternative to the CLI worker: a direct streaming call
// to the Anthropic API with a bounded conversational history. No tools,
// no retry; errors propagate immediately.
type FastClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewFastClient creates a fast-path client using the official SDK.
func NewFastClient(apiKey, model string, maxTokens int64) *FastClient {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &FastClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete appends prompt as a new user turn to history (which is not
// mutated), streams the completion through the accumulator, and resolves
// with the final text plus the computed usage cost.
func (c *FastClient) Complete(ctx context.Context, prompt string, history []session.Turn, onUpdate func(string)) (*Outcome, error) {
	start := time.Now()

	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  msgs,
		System: []anthropic.TextBlockParam{
			{Text: fastSystemPrompt},
		},
	}

	sse := c.client.Messages.NewStreaming(ctx, params)

	acc := &stream.Accumulator{}
	var message anthropic.Message
	for sse.Next() {
		event := sse.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRemoteAPI, err)
		}

		if event.Type == "content_block_delta" {
			cb := event.AsContentBlockDelta()
			if d, ok := cb.Delta.AsAny().(anthropic.TextDelta); ok && d.Text != "" {
				snapshot := acc.Append(d.Text)
				if onUpdate != nil {
					onUpdate(snapshot)
				}
			}
		}
	}
	if err := sse.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	}

	return &Outcome{
		Text:     acc.Snapshot(),
		Duration: time.Since(start),
		CostUSD:  costUSD(message.Usage.InputTokens, message.Usage.OutputTokens),
		HasCost:  true,
	}, nil
}
