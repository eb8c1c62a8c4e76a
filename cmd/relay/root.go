// Package cli defines the relay command tree.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relaylabs/relay/internal/ai"
	"github.com/relaylabs/relay/internal/channels/slack"
	"github.com/relaylabs/relay/internal/config"
	"github.com/relaylabs/relay/internal/gateway"
	"github.com/relaylabs/relay/internal/logging"
	"github.com/relaylabs/relay/internal/session"
)

// SetupRootCmd builds the command tree around a loaded config.
func SetupRootCmd(c *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "relay",
		Short:         "Slack bridge to a tool-capable AI worker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(c)
		},
	}
	root.AddCommand(newAskCmd(c))
	return root
}

// runBot validates configuration (fatal before any session handling),
// connects the Slack surface, and serves until interrupted.
func runBot(c *config.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := session.NewStore()
	router := session.NewRouter(store, c.FastEnabled(), c.DefaultWorkDir(), routerContexts(c))
	runner := &ai.CLIRunner{
		Command: c.Worker.Command,
		Model:   c.Worker.Model,
		Timeout: c.WorkerTimeout(),
	}

	var fast gateway.FastCompleter
	if c.FastEnabled() {
		fast = ai.NewFastClient(c.Anthropic.APIKey, c.Anthropic.Model, c.Anthropic.MaxTokens)
	}

	adapter := slack.New(c.Slack.BotToken, c.Slack.AppToken, c.Slack.AllowedUser)
	gw := gateway.New(router, store, adapter, runner, fast)
	adapter.SetHandler(gw.HandleMessage)

	if err := adapter.Connect(ctx); err != nil {
		return err
	}
	logging.Infof("relay running: fast path enabled=%v default dir=%s", c.FastEnabled(), c.DefaultWorkDir())

	<-ctx.Done()
	logging.Infof("shutting down")
	return adapter.Disconnect()
}

func routerContexts(c *config.Config) []session.ContextDir {
	out := make([]session.ContextDir, 0, len(c.Worker.Contexts))
	for _, cd := range c.Worker.Contexts {
		out = append(out, session.ContextDir{Name: cd.Name, Path: cd.Path})
	}
	return out
}
