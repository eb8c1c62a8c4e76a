// Package gateway wires the pieces together: each inbound message is
// routed, executed on its own goroutine over the fast or full path, and
// streamed back to the chat surface as throttled snapshot updates ending
// in a final, unthrottled flush.
package gateway

import (
	"context"
	"fmt"

	"github.com/relaylabs/relay/internal/ai"
	"github.com/relaylabs/relay/internal/channels"
	"github.com/relaylabs/relay/internal/logging"
	"github.com/relaylabs/relay/internal/session"
	"github.com/relaylabs/relay/internal/stream"
)

const (
	// maxDisplayLen is the Slack message budget; longer snapshots keep
	// their suffix (see stream.TruncateForDisplay).
	maxDisplayLen = 3900

	placeholderText = "_Thinking…_"
	resetReply      = "Session reset."

	successEmoji = "white_check_mark"
	failureEmoji = "x"
)

// FullRunner executes one full-mode worker invocation.
// *ai.CLIRunner satisfies it.
type FullRunner interface {
	Run(ctx context.Context, req ai.CLIRequest) (*ai.Outcome, error)
}

// FastCompleter executes one fast-mode completion.
// *ai.FastClient satisfies it.
type FastCompleter interface {
	Complete(ctx context.Context, prompt string, history []session.Turn, onUpdate func(string)) (*ai.Outcome, error)
}

// Gateway multiplexes conversations over the two execution paths.
type Gateway struct {
	router  *session.Router
	store   *session.Store
	surface channels.Surface
	full    FullRunner
	fast    FastCompleter // nil when the fast path is not deployed
}

func New(router *session.Router, store *session.Store, surface channels.Surface, full FullRunner, fast FastCompleter) *Gateway {
	return &Gateway{router: router, store: store, surface: surface, full: full, fast: fast}
}

// HandleMessage starts an independent invocation for one inbound message.
// Messages arriving for a busy key are not queued; concurrent invocations
// for the same key interleave their display updates, last-write-wins.
func (g *Gateway) HandleMessage(msg channels.InboundMessage) {
	go g.handle(context.Background(), msg)
}

func (g *Gateway) handle(ctx context.Context, msg channels.InboundMessage) {
	route := g.router.Route(msg.ChannelID, msg.Text)

	if route.Reset {
		if _, err := g.surface.Post(ctx, msg.ChannelID, resetReply); err != nil {
			logging.Warnf("[gateway] reset reply failed: %v", err)
		}
		return
	}
	if route.Text == "" {
		return
	}

	handle, err := g.surface.Post(ctx, msg.ChannelID, placeholderText)
	if err != nil {
		// Live updates are best-effort; the invocation still runs.
		logging.Warnf("[gateway] placeholder post failed: %v", err)
		handle = ""
	}

	throttler := stream.NewThrottler(stream.DefaultInterval, func(snapshot string) {
		if handle == "" {
			return
		}
		text := stream.TruncateForDisplay(snapshot, maxDisplayLen)
		if err := g.surface.Update(ctx, msg.ChannelID, handle, text); err != nil {
			logging.Warnf("[gateway] update failed: %v", err)
		}
	})

	var outcome *ai.Outcome
	switch route.Mode {
	case session.ModeFast:
		if g.fast == nil {
			err = fmt.Errorf("fast path is not configured")
			break
		}
		outcome, err = g.fast.Complete(ctx, route.Text, g.store.History(msg.ChannelID), throttler.Notify)
	default:
		outcome, err = g.full.Run(ctx, ai.CLIRequest{
			Prompt:   route.Text,
			WorkDir:  route.WorkDir,
			Resume:   route.Resume,
			OnUpdate: throttler.Notify,
		})
	}

	if err != nil {
		logging.Errorf("[gateway] invocation failed key=%s: %v", msg.ChannelID, err)
		throttler.Flush("Error: " + err.Error())
		g.react(ctx, msg, failureEmoji)
		return
	}

	final := outcome.Text
	if final == "" {
		final = "(no output)"
	}
	throttler.Flush(final + metaSuffix(outcome))
	g.react(ctx, msg, successEmoji)

	switch route.Mode {
	case session.ModeFast:
		g.store.AppendExchange(msg.ChannelID, route.Text, outcome.Text)
	default:
		g.store.MarkContinuable(msg.ChannelID)
	}
}

func (g *Gateway) react(ctx context.Context, msg channels.InboundMessage, emoji string) {
	if err := g.surface.React(ctx, msg.ChannelID, msg.MessageID, emoji); err != nil {
		logging.Warnf("[gateway] reaction failed: %v", err)
	}
}

// metaSuffix renders the elapsed time and, when known, the cost.
func metaSuffix(o *ai.Outcome) string {
	s := fmt.Sprintf("\n\n_%.1fs", o.Duration.Seconds())
	if o.HasCost {
		s += fmt.Sprintf(" • $%.4f", o.CostUSD)
	}
	return s + "_"
}
