// Package prompt composes the fixed review instructions around a rendered
// pull request report.
package prompt
