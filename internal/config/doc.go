// Package config builds the runtime configuration from the GitHub Actions
// environment.
//
// The loader takes a lookup function with the shape of os.LookupEnv, so unit
// tests can feed synthetic environments without mutating the real process
// environment. Loading never touches the network; it only reads and validates
// variables:
//
//	GITHUB_EVENT_NAME        must be "pull_request" (checked first)
//	GITHUB_TOKEN / GH_TOKEN  API token, first non-empty wins
//	SRC_ENDPOINT             Cody endpoint (consumed by the cody CLI itself)
//	SRC_ACCESS_TOKEN         Cody access token (likewise)
//	GITHUB_API_URL           API base URL, default https://api.github.com
//	GITHUB_REPOSITORY        <owner>/<repo>
//	GITHUB_REF               refs/pull/<number>/merge
//
// Optional: GITHUB_APP_ID, GITHUB_APP_INSTALLATION_ID and
// GITHUB_APP_PRIVATE_KEY switch authentication to a GitHub App installation,
// and CODY_REVIEW_INSECURE_TLS=true disables TLS certificate verification for
// environments with self-signed GitHub Enterprise certificates.
package config
