// Package report renders pull request metadata and patches into the plain
// text block embedded in the review prompt.
package report
