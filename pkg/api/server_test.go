package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repodeploy/repodeploy/pkg/config"
	"github.com/repodeploy/repodeploy/pkg/github"
	"github.com/repodeploy/repodeploy/pkg/webhook"
)

// fakeGitHub answers every provider call the API makes with success and
// remembers the requests it saw.
type fakeGitHub struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/generate"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"name":"alice-shop-deployed"}`)
	case strings.HasSuffix(r.URL.Path, "/dispatches"):
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(r.URL.Path, "/hooks"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":99}`)
	case r.Method == http.MethodPut:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeGitHub) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, http.Handler, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.GitHub = config.GitHubConfig{Token: "t", Username: "deploybot", TemplateRepo: "deploy-template", APIURL: srv.URL}
	cfg.Webhook = config.WebhookConfig{URL: "https://deploy.example.com"}
	cfg.Deploy = config.DeployConfig{
		WorkflowFile:    "import_user_repo.yml",
		WaitTimeout:     time.Second,
		PollInterval:    10 * time.Millisecond,
		ManifestEnabled: true,
		ManifestPath:    "k8s/deployment.yaml",
		ImageRegistry:   "ghcr.io",
	}
	cfg.Store.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	cfg.Server = config.ServerConfig{Port: 8080, RateLimit: 1000, RateLimitBurst: 1000}
	if mutate != nil {
		mutate(cfg)
	}

	app, err := NewApp(cfg, github.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app, app.Server("test").Handler(), fake
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "repodeployd", name)
	assert.Equal(t, "dev", versionDefault)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}

func TestRoutes(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	routes := app.Routes()
	for _, pattern := range []string{
		"POST /deploy",
		"POST /webhook/create",
		"POST /webhook/update/{username}/{deployedRepoName}",
		"GET /test",
		"GET /v1/deployments",
		"GET /v1/deployments/{repo}",
	} {
		assert.Contains(t, routes, pattern)
	}
}

func TestRoutes_WithoutStore(t *testing.T) {
	app, h, _ := newTestApp(t, func(c *config.Config) { c.Store.DSN = "" })

	assert.Nil(t, app.Store)
	assert.NotContains(t, app.Routes(), "GET /v1/deployments")

	code, _ := do(t, h, http.MethodGet, "/v1/deployments", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTestEndpoint(t *testing.T) {
	_, h, _ := newTestApp(t, nil)

	code, resp := do(t, h, http.MethodGet, "/test", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Test endpoint is working", resp["message"])
}

func TestDeployThenPush(t *testing.T) {
	_, h, fake := newTestApp(t, nil)

	body := `{"username":"Alice","user_repo_url":"https://github.com/alice/shop","app_name":"shop","language":"node","has_dockerfile":false,"port":8080}`
	code, resp := do(t, h, http.MethodPost, "/deploy", body, nil)
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "alice-shop-deployed", resp["repo_name"])

	assert.Equal(t, 1, fake.count("POST /repos/deploybot/deploy-template/generate"))
	assert.Equal(t, 1, fake.count("POST /repos/deploybot/alice-shop-deployed/actions/workflows/import_user_repo.yml/dispatches"))
	assert.Equal(t, 1, fake.count("POST /repos/alice/shop/hooks"))
	assert.Equal(t, 1, fake.count("PUT /repos/deploybot/alice-shop-deployed/contents/k8s/deployment.yaml"))

	code, resp = do(t, h, http.MethodGet, "/v1/deployments/alice-shop-deployed", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "import_triggered", resp["status"])
	assert.Equal(t, "created", resp["webhook_status"])

	push := `{"head_commit":{"id":"abc"},"repository":{"clone_url":"https://github.com/alice/shop.git"}}`
	code, resp = do(t, h, http.MethodPost, "/webhook/update/alice/alice-shop-deployed", push, nil)
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, webhook.StatusTriggered, resp["status"])
	assert.Equal(t, 2, fake.count("POST /repos/deploybot/alice-shop-deployed/actions/workflows/import_user_repo.yml/dispatches"))

	code, resp = do(t, h, http.MethodGet, "/v1/deployments", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])
	items := resp["deployments"].([]any)
	record := items[0].(map[string]any)
	assert.EqualValues(t, 1, record["trigger_count"])
	assert.Equal(t, "https://github.com/alice/shop.git", record["source_repo_url"])
}

func TestWebhookSecretEnforced(t *testing.T) {
	_, h, fake := newTestApp(t, func(c *config.Config) { c.Webhook.Secret = "s3cret" })

	push := `{"head_commit":{"id":"abc"},"repository":{"clone_url":"https://github.com/alice/shop.git"}}`
	code, _ := do(t, h, http.MethodPost, "/webhook/update/alice/alice-shop-deployed", push, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Zero(t, fake.count("POST"))

	code, _ = do(t, h, http.MethodPost, "/webhook/update/alice/alice-shop-deployed", push,
		map[string]string{webhook.SignatureHeader: webhook.Sign("s3cret", []byte(push))})
	assert.Equal(t, http.StatusOK, code)
}

func TestMethodMismatch(t *testing.T) {
	_, h, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/deploy", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
