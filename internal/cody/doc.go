// Package cody invokes the Sourcegraph cody CLI as a subprocess and captures
// its review output.
//
// The interface to cody is intentionally narrow: one synchronous chat
// invocation, stdout as the review text, stderr and the exit code as the
// failure channel.
package cody
