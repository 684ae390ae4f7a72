// Package cli wires together the Cobra command tree for the cody-review
// binary.
//
// It defines the root command and subcommands (run, report, version), reads
// the workflow configuration, drives the fetch -> review -> publish pipeline,
// and maps failures to deterministic exit codes: 0 on success, 1 for
// configuration and fetch failures, and the review tool's own exit code when
// cody fails.
package cli
