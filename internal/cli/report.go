package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eekwong/cody-code-review/internal/github"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the rendered pull request report without invoking cody",
	Long: `Fetch the pull request identified by the workflow environment and print the
text block that would be embedded in the review prompt. Useful for debugging
what cody actually sees.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := loadConfig()
		if !ok {
			return nil
		}

		ctx := context.Background()

		client, err := github.NewClient(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		text, err := fetchReport(ctx, client, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		fmt.Fprint(os.Stdout, text)
		return nil
	},
}
