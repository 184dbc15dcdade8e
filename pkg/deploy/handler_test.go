package deploy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveDeploy(t *testing.T, o *Orchestrator, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/deploy", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	o.HandleDeploy(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return w, resp
}

const validBody = `{"username":"alice","user_repo_url":"https://github.com/alice/shop","app_name":"shop","language":"node","has_dockerfile":false,"port":8080}`

func TestHandleDeploy(t *testing.T) {
	tests := []struct {
		name     string
		repos    *fakeRepos
		body     string
		wantCode int
		wantErr  string
	}{
		{"success", &fakeRepos{}, validBody, http.StatusOK, ""},
		{"empty body", &fakeRepos{}, "", http.StatusBadRequest, "INVALID_JSON"},
		{"malformed json", &fakeRepos{}, `{"username":`, http.StatusBadRequest, "INVALID_JSON"},
		{"wrong type", &fakeRepos{}, `{"port":"eighty"}`, http.StatusBadRequest, "INVALID_JSON"},
		{"invalid fields", &fakeRepos{}, `{"username":"alice","app_name":"shop","port":8080}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"provider failure", &fakeRepos{failAt: stepTrigger}, validBody, http.StatusInternalServerError, "UPSTREAM_ERROR"},
		{"workflow timeout", &fakeRepos{notReady: true}, validBody, http.StatusInternalServerError, "TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serveDeploy(t, New(tt.repos), tt.body)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %v", tt.wantCode, w.Code, resp)
			}
			if tt.wantErr == "" {
				if resp["status"] != "success" || resp["repo_name"] != "alice-shop-deployed" {
					t.Errorf("unexpected success body %v", resp)
				}
				return
			}
			if resp["code"] != tt.wantErr {
				t.Errorf("expected code %s, got %v", tt.wantErr, resp["code"])
			}
			if detail, _ := resp["detail"].(string); detail == "" {
				t.Errorf("expected detail in error body, got %v", resp)
			}
		})
	}
}

func TestHandleDeploy_FailureDetailNamesStep(t *testing.T) {
	_, resp := serveDeploy(t, New(&fakeRepos{failAt: stepWebhook}), validBody)

	detail, _ := resp["detail"].(string)
	if !strings.Contains(detail, stepWebhook) {
		t.Errorf("expected detail to name the failing step, got %q", detail)
	}
	if resp["retryable"] != true {
		t.Errorf("expected upstream failures to be retryable, got %v", resp["retryable"])
	}
}
