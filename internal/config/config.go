package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const defaultAPIURL = "https://api.github.com"

// LookupFunc resolves an environment variable. It has the signature of
// os.LookupEnv so tests can supply synthetic environments.
type LookupFunc func(key string) (string, bool)

// ErrNotPullRequest is returned when GITHUB_EVENT_NAME is not "pull_request".
// The tool is only meaningful inside a pull-request-triggered workflow run.
var ErrNotPullRequest = errors.New("not running in a pull_request workflow")

// ErrMalformedRef is returned when GITHUB_REF does not look like
// refs/pull/<number>/merge.
var ErrMalformedRef = errors.New("malformed GITHUB_REF")

// AppAuth holds GitHub App installation credentials. When set, an App
// installation token is used instead of GITHUB_TOKEN.
type AppAuth struct {
	ID             int64
	InstallationID int64
	PrivateKeyPath string
}

// Enabled reports whether App authentication is configured.
func (a AppAuth) Enabled() bool { return a.ID != 0 }

// Config is the full runtime configuration, built once at startup from the
// workflow environment and immutable afterwards.
type Config struct {
	APIURL         string
	RepoHost       string
	Owner          string
	Repo           string
	PRNumber       int
	Token          string
	App            AppAuth
	SrcEndpoint    string
	SrcAccessToken string
	InsecureTLS    bool
}

// ContextRepo returns the repository identifier cody expects for
// --context-repo, e.g. "github.com/acme/widgets".
func (c Config) ContextRepo() string {
	return c.RepoHost + "/" + c.Owner + "/" + c.Repo
}

// Load builds a Config from the environment exposed by lookup.
//
// The pull_request gate is checked first; nothing else is validated (and no
// network or subprocess activity can happen) when the gate fails.
func Load(lookup LookupFunc) (Config, error) {
	if event, _ := lookup("GITHUB_EVENT_NAME"); event != "pull_request" {
		return Config{}, ErrNotPullRequest
	}

	var cfg Config

	app, err := loadAppAuth(lookup)
	if err != nil {
		return Config{}, err
	}
	cfg.App = app

	cfg.Token = firstNonEmpty(lookup, "GITHUB_TOKEN", "GH_TOKEN")
	if cfg.Token == "" && !cfg.App.Enabled() {
		return Config{}, errors.New("GitHub authentication token is missing: set GITHUB_TOKEN or GH_TOKEN")
	}

	cfg.SrcEndpoint = firstNonEmpty(lookup, "SRC_ENDPOINT")
	if cfg.SrcEndpoint == "" {
		return Config{}, errors.New("missing required Cody environment variable: SRC_ENDPOINT")
	}
	cfg.SrcAccessToken = firstNonEmpty(lookup, "SRC_ACCESS_TOKEN")
	if cfg.SrcAccessToken == "" {
		return Config{}, errors.New("missing required Cody environment variable: SRC_ACCESS_TOKEN")
	}

	apiURL := firstNonEmpty(lookup, "GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(apiURL, "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Hostname() == "" {
		return Config{}, fmt.Errorf("invalid GITHUB_API_URL %q", apiURL)
	}
	cfg.RepoHost = u.Hostname()

	repository := firstNonEmpty(lookup, "GITHUB_REPOSITORY")
	cfg.Owner, cfg.Repo, err = splitRepository(repository)
	if err != nil {
		return Config{}, err
	}

	ref := firstNonEmpty(lookup, "GITHUB_REF")
	cfg.PRNumber, err = parsePRNumber(ref)
	if err != nil {
		return Config{}, err
	}

	if raw := firstNonEmpty(lookup, "CODY_REVIEW_INSECURE_TLS"); raw != "" {
		insecure, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CODY_REVIEW_INSECURE_TLS %q: %w", raw, err)
		}
		cfg.InsecureTLS = insecure
	}

	return cfg, nil
}

func loadAppAuth(lookup LookupFunc) (AppAuth, error) {
	rawID := firstNonEmpty(lookup, "GITHUB_APP_ID")
	if rawID == "" {
		return AppAuth{}, nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return AppAuth{}, fmt.Errorf("invalid GITHUB_APP_ID %q: %w", rawID, err)
	}

	rawInstall := firstNonEmpty(lookup, "GITHUB_APP_INSTALLATION_ID")
	if rawInstall == "" {
		return AppAuth{}, errors.New("GITHUB_APP_INSTALLATION_ID must be set when GITHUB_APP_ID is set")
	}
	installID, err := strconv.ParseInt(rawInstall, 10, 64)
	if err != nil {
		return AppAuth{}, fmt.Errorf("invalid GITHUB_APP_INSTALLATION_ID %q: %w", rawInstall, err)
	}

	keyPath := firstNonEmpty(lookup, "GITHUB_APP_PRIVATE_KEY")
	if keyPath == "" {
		return AppAuth{}, errors.New("GITHUB_APP_PRIVATE_KEY must be set when GITHUB_APP_ID is set")
	}

	return AppAuth{ID: id, InstallationID: installID, PrivateKeyPath: keyPath}, nil
}

// splitRepository splits a GITHUB_REPOSITORY value of the form "owner/repo".
func splitRepository(repository string) (owner, repo string, err error) {
	if repository == "" {
		return "", "", errors.New("GITHUB_REPOSITORY must be set to <owner>/<repo>")
	}
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GITHUB_REPOSITORY %q, expected <owner>/<repo>", repository)
	}
	return parts[0], parts[1], nil
}

// parsePRNumber extracts the pull request number from a ref of the form
// refs/pull/<number>/merge. The number is the third /-separated segment; any
// other shape is rejected rather than mis-read.
func parsePRNumber(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("%w: GITHUB_REF is not set", ErrMalformedRef)
	}
	parts := strings.Split(ref, "/")
	if len(parts) < 3 || parts[0] != "refs" || parts[1] != "pull" {
		return 0, fmt.Errorf("%w: %q, expected refs/pull/<number>/merge", ErrMalformedRef, ref)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q has no pull request number", ErrMalformedRef, ref)
	}
	return n, nil
}

func firstNonEmpty(lookup LookupFunc, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup(k); ok && v != "" {
			return v
		}
	}
	return ""
}
