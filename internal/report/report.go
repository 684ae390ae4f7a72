package report

import (
	"fmt"
	"strings"

	"github.com/eekwong/cody-code-review/internal/github"
)

// noPatchPlaceholder stands in for files the API returns without a patch
// (binary files, oversized diffs).
const noPatchPlaceholder = "No patch data available."

// patchDelimiter frames each patch block in the rendered report.
const patchDelimiter = "--------------------------------"

// Render produces the single text blob handed to the review prompt: the PR
// title and body followed by every changed file's name and unified diff.
// Patches are opaque text; nothing is parsed.
func Render(pr *github.PullRequest, files []github.ChangedFile) string {
	var b strings.Builder

	b.WriteString("--- Pull Request Details ---\n")
	fmt.Fprintf(&b, "Title: %s\n", pr.Title)
	fmt.Fprintf(&b, "Body:\n%s\n\n", pr.Body)

	b.WriteString("--- Changed Files ---\n")
	for _, f := range files {
		patch := f.Patch
		if patch == "" {
			patch = noPatchPlaceholder
		}
		fmt.Fprintf(&b, "File Name: %s\n", f.Filename)
		b.WriteString("Patch:\n")
		b.WriteString(patchDelimiter + "\n")
		b.WriteString(patch + "\n")
		b.WriteString(patchDelimiter + "\n")
	}

	return b.String()
}
