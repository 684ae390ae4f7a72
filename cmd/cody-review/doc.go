// Cody-review posts an AI-generated code review as a comment on the GitHub
// pull request that triggered the current workflow run.
//
// It fetches the PR title, body, and changed-file patches from the GitHub
// API, hands them to the Sourcegraph cody CLI with fixed review instructions,
// and publishes cody's answer back on the pull request.
//
// Usage:
//
//	cody-review run               # fetch, review, and post the comment
//	cody-review run --dry-run     # print the review instead of posting
//	cody-review report            # print the PR report sent to cody
//
// Configuration comes entirely from the GitHub Actions environment; see the
// internal/config package for the variables involved.
package main
