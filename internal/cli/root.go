package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes. Every failure collapses to 1 except a review tool that ran and
// failed, whose own exit code is propagated.
const (
	ExitSuccess = 0
	ExitError   = 1
)

var rootCmd = &cobra.Command{
	Use:   "cody-review",
	Short: "AI code review comments for GitHub pull requests",
	Long: `cody-review fetches the current pull request's title, body, and diffs, asks
the Sourcegraph cody CLI for a review, and posts the result back on the pull
request as a comment. It is designed to run inside a pull_request-triggered
GitHub Actions job.`,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cody-review version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "cody-review version %s\n", version)
	},
}
