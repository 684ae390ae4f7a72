package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eekwong/cody-code-review/internal/cody"
	"github.com/eekwong/cody-code-review/internal/config"
	"github.com/eekwong/cody-code-review/internal/github"
	"github.com/eekwong/cody-code-review/internal/prompt"
	"github.com/eekwong/cody-code-review/internal/report"
)

var (
	flagCodyPath string
	flagDryRun   bool
)

// lookupEnv is swapped by tests to run against synthetic environments.
var lookupEnv config.LookupFunc = os.LookupEnv

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Review the current pull request and post the result as a comment",
	Long: `Run the full pipeline: fetch the pull request identified by the workflow
environment, ask cody for a review, and post the review as an issue comment
on the pull request.`,
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

		fmt.Fprintf(os.Stderr, "Reviewing %s/%s#%d with cody...\n", cfg.Owner, cfg.Repo, cfg.PRNumber)
		review, err := cody.New(flagCodyPath).Review(ctx, cfg.ContextRepo(), prompt.Build(text))
		if err != nil {
			var exitErr *cody.ExitError
			if errors.As(err, &exitErr) {
				if exitErr.Stderr != "" {
					fmt.Fprintln(os.Stderr, exitErr.Stderr)
				}
				fmt.Fprintln(os.Stderr, "\n--- Command failed! ---")
				exitCode = exitErr.Code
				if exitCode <= 0 {
					exitCode = ExitError
				}
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		if flagDryRun {
			fmt.Fprintln(os.Stderr, "Dry run: not posting the review.")
			fmt.Fprintln(os.Stdout, review)
			return nil
		}

		publishReview(ctx, client, cfg, review)
		return nil
	},
}

// loadConfig loads the workflow configuration, reporting failures and setting
// the exit code itself. The bool result is false when the caller should stop.
func loadConfig() (config.Config, bool) {
	cfg, err := config.Load(lookupEnv)
	if err != nil {
		if errors.Is(err, config.ErrNotPullRequest) {
			fmt.Fprintln(os.Stderr, "cody-review only runs inside a pull_request-triggered workflow")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		exitCode = ExitError
		return config.Config{}, false
	}
	return cfg, true
}

// fetchReport retrieves the pull request and its changed files and renders
// them into the report text block.
func fetchReport(ctx context.Context, client *github.Client, cfg config.Config) (string, error) {
	pr, err := client.PullRequest(ctx, cfg.Owner, cfg.Repo, cfg.PRNumber)
	if err != nil {
		return "", err
	}
	files, err := client.ChangedFiles(ctx, cfg.Owner, cfg.Repo, cfg.PRNumber)
	if err != nil {
		return "", err
	}
	return report.Render(pr, files), nil
}

// publishReview posts the review as an issue comment. Publish failures are
// reported on stderr but do not fail the run.
func publishReview(ctx context.Context, client *github.Client, cfg config.Config, review string) {
	comment, err := client.CreateComment(ctx, cfg.Owner, cfg.Repo, cfg.PRNumber, review)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add comment: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stdout, "Comment added successfully: %s\n", comment.URL)
}

func init() {
	runCmd.Flags().StringVar(&flagCodyPath, "cody-path", "", "Path to the cody binary (default: cody on PATH)")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the review to stdout instead of posting it")
}
