package github

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"

	"github.com/eekwong/cody-code-review/internal/config"
)

// newHTTPClient builds the transport stack for the GitHub client: optional
// InsecureSkipVerify for self-signed Enterprise certificates, and a GitHub App
// installation transport when App credentials are configured. Token auth is
// layered on by go-github itself via WithAuthToken.
func newHTTPClient(cfg config.Config) (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if cfg.InsecureTLS {
		base = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in via CODY_REVIEW_INSECURE_TLS
		}
	}

	if cfg.App.Enabled() {
		itr, err := ghinstallation.NewKeyFromFile(base, cfg.App.ID, cfg.App.InstallationID, cfg.App.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub App auth: %w", err)
		}
		if cfg.APIURL != defaultAPIURL {
			itr.BaseURL = cfg.APIURL
		}
		return &http.Client{Transport: itr, Timeout: 60 * time.Second}, nil
	}

	return &http.Client{Transport: base, Timeout: 60 * time.Second}, nil
}
