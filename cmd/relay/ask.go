package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaylabs/relay/internal/ai"
	"github.com/relaylabs/relay/internal/config"
)

// newAskCmd runs a single full-mode invocation from the terminal,
// streaming output as it arrives. Useful for checking the worker setup
// without going through Slack.
func newAskCmd(c *config.Config) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Run one worker invocation and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ai.CLIRunner{
				Command: c.Worker.Command,
				Model:   c.Worker.Model,
				Timeout: c.WorkerTimeout(),
			}
			workDir := dir
			if workDir == "" {
				workDir = c.DefaultWorkDir()
			}

			// Snapshots are cumulative; print only what is new.
			printed := 0
			onUpdate := func(snapshot string) {
				if len(snapshot) > printed {
					fmt.Print(snapshot[printed:])
					printed = len(snapshot)
				}
			}

			outcome, err := runner.Run(cmd.Context(), ai.CLIRequest{
				Prompt:   strings.Join(args, " "),
				WorkDir:  workDir,
				OnUpdate: onUpdate,
			})
			if err != nil {
				return err
			}
			if len(outcome.Text) > printed {
				fmt.Print(outcome.Text[printed:])
			}
			fmt.Printf("\n\n(%.1fs", outcome.Duration.Seconds())
			if outcome.HasCost {
				fmt.Printf(", $%.4f", outcome.CostUSD)
			}
			fmt.Println(")")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "working directory for the worker")
	return cmd
}
