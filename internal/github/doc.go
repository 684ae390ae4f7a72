// Package github wraps the go-github client for the three API calls this
// tool makes: fetch a pull request, list its changed files, and post an issue
// comment.
//
// Responses are converted to small local types so the rest of the program
// never handles go-github pointers. Authentication is a personal/workflow
// token by default, or a GitHub App installation token when App credentials
// are configured.
package github
