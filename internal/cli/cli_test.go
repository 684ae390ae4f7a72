package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/eekwong/cody-code-review/internal/config"
	"github.com/eekwong/cody-code-review/internal/github"
)

// resetState restores package-level command state between tests.
func resetState(t *testing.T) {
	t.Helper()
	exitCode = ExitSuccess
	flagCodyPath = ""
	flagDryRun = false
	lookupEnv = os.LookupEnv
	t.Cleanup(func() {
		exitCode = ExitSuccess
		flagCodyPath = ""
		flagDryRun = false
		lookupEnv = os.LookupEnv
	})
}

func mapLookup(m map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// baseEnv returns a valid pull_request environment pointed at apiURL.
func baseEnv(apiURL string) map[string]string {
	return map[string]string{
		"GITHUB_EVENT_NAME": "pull_request",
		"GITHUB_TOKEN":      "gh-token",
		"SRC_ENDPOINT":      "https://sourcegraph.example.com",
		"SRC_ACCESS_TOKEN":  "src-token",
		"GITHUB_API_URL":    apiURL,
		"GITHUB_REPOSITORY": "acme/widgets",
		"GITHUB_REF":        "refs/pull/42/merge",
	}
}

// fakeCody writes an executable stand-in for the cody binary. Every
// invocation touches the file named by the CODY_MARKER environment variable,
// so tests can assert whether cody ran at all.
func fakeCody(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake executables use /bin/sh")
	}
	marker := filepath.Join(t.TempDir(), "invoked")
	t.Setenv("CODY_MARKER", marker)

	path := filepath.Join(t.TempDir(), "cody")
	content := "#!/bin/sh\n: > \"$CODY_MARKER\"\n" + script
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("writing fake cody: %v", err)
	}
	return path
}

func codyInvoked(t *testing.T) bool {
	t.Helper()
	_, err := os.Stat(os.Getenv("CODY_MARKER"))
	return err == nil
}

// githubStub is a minimal GitHub API for acme/widgets#42 with per-endpoint
// failure injection.
type githubStub struct {
	server *httptest.Server

	pullsStatus int
	filesStatus int
	postStatus  int

	postHits int
	posted   []string
}

func newGitHubStub(t *testing.T) *githubStub {
	t.Helper()
	s := &githubStub{
		pullsStatus: http.StatusOK,
		filesStatus: http.StatusOK,
		postStatus:  http.StatusCreated,
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/widgets/pulls/42":
			if got := r.Header.Get("Authorization"); got != "Bearer gh-token" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer gh-token")
			}
			if s.pullsStatus != http.StatusOK {
				w.WriteHeader(s.pullsStatus)
				fmt.Fprint(w, `{"message":"boom"}`)
				return
			}
			fmt.Fprint(w, `{"number":42,"title":"Add retry logic","body":"Retries transient failures."}`)

		case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/widgets/pulls/42/files":
			if s.filesStatus != http.StatusOK {
				w.WriteHeader(s.filesStatus)
				fmt.Fprint(w, `{"message":"boom"}`)
				return
			}
			fmt.Fprint(w, `[{"filename":"main.go","patch":"@@ -1 +1 @@\n-old\n+new"}]`)

		case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/widgets/issues/42/comments":
			s.postHits++
			raw, _ := io.ReadAll(r.Body)
			var payload struct {
				Body string `json:"body"`
			}
			if err := json.Unmarshal(raw, &payload); err != nil {
				t.Errorf("decoding comment payload: %v", err)
			}
			s.posted = append(s.posted, payload.Body)
			if s.postStatus != http.StatusCreated {
				w.WriteHeader(s.postStatus)
				fmt.Fprint(w, `{"message":"nope"}`)
				return
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":1,"html_url":"https://github.com/acme/widgets/pull/42#issuecomment-1"}`)

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func TestRun_EndToEnd(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, `echo "LGTM with minor nits."`)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitSuccess)
	}
	if !codyInvoked(t) {
		t.Error("cody should have been invoked")
	}
	if stub.postHits != 1 {
		t.Fatalf("postHits = %d, want 1", stub.postHits)
	}
	if stub.posted[0] != "LGTM with minor nits." {
		t.Errorf("posted body = %q", stub.posted[0])
	}
}

func TestRun_NotPullRequestEvent(t *testing.T) {
	resetState(t)
	env := baseEnv("https://api.github.com")
	env["GITHUB_EVENT_NAME"] = "push"
	lookupEnv = mapLookup(env)
	flagCodyPath = fakeCody(t, `echo unreachable`)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
	}
	if codyInvoked(t) {
		t.Error("cody must not run outside a pull_request workflow")
	}
}

func TestRun_MissingEnv(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"missing token", "GITHUB_TOKEN"},
		{"missing src endpoint", "SRC_ENDPOINT"},
		{"missing src access token", "SRC_ACCESS_TOKEN"},
		{"missing repository", "GITHUB_REPOSITORY"},
		{"missing ref", "GITHUB_REF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetState(t)
			env := baseEnv("https://api.github.com")
			delete(env, tt.remove)
			lookupEnv = mapLookup(env)
			flagCodyPath = fakeCody(t, `echo unreachable`)

			if err := runCmd.RunE(runCmd, nil); err != nil {
				t.Fatalf("run error: %v", err)
			}
			if exitCode != ExitError {
				t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
			}
			if codyInvoked(t) {
				t.Error("cody must not run with incomplete configuration")
			}
		})
	}
}

func TestRun_MalformedRef(t *testing.T) {
	resetState(t)
	env := baseEnv("https://api.github.com")
	env["GITHUB_REF"] = "refs/heads/main"
	lookupEnv = mapLookup(env)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
	}
}

func TestRun_PullFetchFailure(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	stub.pullsStatus = http.StatusInternalServerError
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, `echo unreachable`)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
	}
	if codyInvoked(t) {
		t.Error("cody must not run when the PR fetch fails")
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, want 0", stub.postHits)
	}
}

func TestRun_FilesFetchFailure(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	stub.filesStatus = http.StatusInternalServerError
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, `echo unreachable`)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
	}
	if codyInvoked(t) {
		t.Error("cody must not run when the files fetch fails")
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, want 0", stub.postHits)
	}
}

func TestRun_CodyExitCodePropagated(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, "echo \"quota exhausted\" >&2\nexit 9")

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != 9 {
		t.Errorf("exitCode = %d, want cody's exit code 9", exitCode)
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, want 0 after cody failure", stub.postHits)
	}
}

func TestRun_CodyNotFound(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	t.Setenv("PATH", t.TempDir())
	flagCodyPath = "cody-definitely-not-installed"

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitError)
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, want 0", stub.postHits)
	}
}

func TestRun_PublishFailureNonFatal(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	stub.postStatus = http.StatusForbidden
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, `echo "LGTM"`)

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, publish failures must not fail the run", exitCode)
	}
	if stub.postHits != 1 {
		t.Errorf("postHits = %d, want 1", stub.postHits)
	}
}

func TestRun_DryRunSkipsPublish(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))
	flagCodyPath = fakeCody(t, `echo "LGTM"`)
	flagDryRun = true

	if err := runCmd.RunE(runCmd, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitSuccess)
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, want 0 in dry-run mode", stub.postHits)
	}
}

func TestFetchReport_Golden(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))

	cfg, err := config.Load(lookupEnv)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	client, err := github.NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	got, err := fetchReport(context.Background(), client, cfg)
	if err != nil {
		t.Fatalf("fetchReport error: %v", err)
	}

	want := "--- Pull Request Details ---\n" +
		"Title: Add retry logic\n" +
		"Body:\nRetries transient failures.\n\n" +
		"--- Changed Files ---\n" +
		"File Name: main.go\n" +
		"Patch:\n" +
		"--------------------------------\n" +
		"@@ -1 +1 @@\n-old\n+new\n" +
		"--------------------------------\n"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportCommand(t *testing.T) {
	resetState(t)
	stub := newGitHubStub(t)
	lookupEnv = mapLookup(baseEnv(stub.server.URL))

	if err := reportCmd.RunE(reportCmd, nil); err != nil {
		t.Fatalf("report error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitSuccess)
	}
	if stub.postHits != 0 {
		t.Errorf("postHits = %d, report must never post", stub.postHits)
	}
}
